package room

// Room is the durable registry record for one watch party.
//
// CurrentTime and IsPlaying hold the last playback state committed by the
// room's host; everything else is immutable after creation.
type Room struct {
	Code          string  `redis:"code" json:"code"`
	VideoURL      string  `redis:"video_url" json:"video_url"`
	HostSessionID string  `redis:"host_session_id" json:"-"`
	CurrentTime   float64 `redis:"current_time" json:"current_time"`
	IsPlaying     bool    `redis:"is_playing" json:"is_playing"`
	CreatedAt     int64   `redis:"created_at" json:"created_at"`
}

type SetRoomParams struct {
	Code          string
	VideoURL      string
	HostSessionID string
	CreatedAt     int64
}

type UpdatePlaybackParams struct {
	Code        string
	CurrentTime float64
	IsPlaying   bool
}
