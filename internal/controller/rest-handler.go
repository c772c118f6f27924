package controller

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	roomservice "github.com/streamsmart/server/internal/service/room"
	"github.com/streamsmart/server/internal/service/summarizer"
	"github.com/streamsmart/server/pkg/rest"
)

type createRoomRequest struct {
	VideoURL      string `json:"video_url" validate:"required,url"`
	HostSessionID string `json:"host_session_id" validate:"required,max=64"`
}

func (c controller) createRoom(w http.ResponseWriter, r *http.Request) {
	var req createRoomRequest

	if err := rest.ReadJSON(r, &req); err != nil {
		c.logger.InfoContext(r.Context(), "failed to read create room body", "error", err)
		rest.WriteJSON(w, http.StatusUnprocessableEntity, rest.Envelope{"error": err.Error()})
		return
	}

	if validationErrors, ok := c.validate.Validate(req); !ok {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"errors": validationErrors})
		return
	}

	rm, err := c.roomService.CreateRoom(r.Context(), &roomservice.CreateRoomParams{
		VideoURL:      req.VideoURL,
		HostSessionID: req.HostSessionID,
	})
	if err != nil {
		c.logger.WarnContext(r.Context(), "failed to create room", "error", err)
		rest.WriteJSON(w, http.StatusInternalServerError, rest.Envelope{"error": "failed to create room"})
		return
	}

	rest.WriteJSON(w, http.StatusCreated, rest.Envelope{"data": rm})
}

func (c controller) getRoom(w http.ResponseWriter, r *http.Request) {
	roomCode := chi.URLParam(r, "room-code")

	rm, err := c.roomService.GetRoomByCode(r.Context(), roomCode)
	if err != nil {
		if errors.Is(err, roomservice.ErrRoomNotFound) {
			rest.WriteJSON(w, http.StatusNotFound, rest.Envelope{"error": "Room not found"})
			return
		}

		c.logger.WarnContext(r.Context(), "failed to get room", "error", err)
		rest.WriteJSON(w, http.StatusInternalServerError, rest.Envelope{"error": "failed to get room"})
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": rm})
}

type createJobRequest struct {
	URL string `json:"url" validate:"required,url"`
}

func (c controller) createJob(w http.ResponseWriter, r *http.Request) {
	var req createJobRequest

	if err := rest.ReadJSON(r, &req); err != nil {
		c.logger.InfoContext(r.Context(), "failed to read create job body", "error", err)
		rest.WriteJSON(w, http.StatusUnprocessableEntity, rest.Envelope{"error": err.Error()})
		return
	}

	if validationErrors, ok := c.validate.Validate(req); !ok {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"errors": validationErrors})
		return
	}

	j, err := c.jobService.CreateJob(r.Context(), req.URL)
	if err != nil {
		if errors.Is(err, summarizer.ErrQueueIsFull) {
			rest.WriteJSON(w, http.StatusServiceUnavailable, rest.Envelope{"error": err.Error()})
			return
		}

		c.logger.WarnContext(r.Context(), "failed to create job", "error", err)
		rest.WriteJSON(w, http.StatusInternalServerError, rest.Envelope{"error": "failed to create job"})
		return
	}

	rest.WriteJSON(w, http.StatusCreated, rest.Envelope{"data": j})
}

func (c controller) getJob(w http.ResponseWriter, r *http.Request) {
	jobId := chi.URLParam(r, "job-id")

	j, err := c.jobService.GetJobByID(r.Context(), jobId)
	if err != nil {
		if errors.Is(err, summarizer.ErrJobNotFound) {
			rest.WriteJSON(w, http.StatusNotFound, rest.Envelope{"error": "Job not found"})
			return
		}

		c.logger.WarnContext(r.Context(), "failed to get job", "error", err)
		rest.WriteJSON(w, http.StatusInternalServerError, rest.Envelope{"error": "failed to get job"})
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": j})
}
