package watch

// Inbound messages. Required fields are pointers so a missing field is
// distinguishable from a zero value.

type joinInput struct {
	SessionID *string `json:"session_id"`
	Username  *string `json:"username"`
}

type syncInput struct {
	CurrentTime *float64 `json:"current_time"`
	IsPlaying   *bool    `json:"is_playing"`
}

type chatInput struct {
	Message string `json:"message"`
}

// Outbound messages, one flat JSON object each, discriminated by "type".

type pongOutput struct {
	Type string `json:"type"`
}

func newPongOutput() pongOutput {
	return pongOutput{Type: "pong"}
}

type roleOutput struct {
	Type     string `json:"type"`
	IsHost   bool   `json:"is_host"`
	VideoURL string `json:"video_url"`
}

func newRoleOutput(isHost bool, videoURL string) roleOutput {
	return roleOutput{Type: "role", IsHost: isHost, VideoURL: videoURL}
}

type syncOutput struct {
	Type        string  `json:"type"`
	CurrentTime float64 `json:"current_time"`
	IsPlaying   bool    `json:"is_playing"`
}

func newSyncOutput(currentTime float64, isPlaying bool) syncOutput {
	return syncOutput{Type: "sync", CurrentTime: currentTime, IsPlaying: isPlaying}
}

type userJoinedOutput struct {
	Type     string `json:"type"`
	Username string `json:"username"`
}

func newUserJoinedOutput(username string) userJoinedOutput {
	return userJoinedOutput{Type: "user_joined", Username: username}
}

type userLeftOutput struct {
	Type     string `json:"type"`
	Username string `json:"username"`
}

func newUserLeftOutput(username string) userLeftOutput {
	return userLeftOutput{Type: "user_left", Username: username}
}

type chatOutput struct {
	Type     string `json:"type"`
	Message  string `json:"message"`
	Username string `json:"username"`
}

func newChatOutput(message, username string) chatOutput {
	return chatOutput{Type: "chat", Message: message, Username: username}
}

type roomClosedOutput struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func newRoomClosedOutput(message string) roomClosedOutput {
	return roomClosedOutput{Type: "room_closed", Message: message}
}

type errorOutput struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func newErrorOutput(message string) errorOutput {
	return errorOutput{Type: "error", Message: message}
}
