package models

type ProgressEventType string

const (
	ProgressConnecting ProgressEventType = "connecting"
	ProgressStreaming  ProgressEventType = "streaming"
	ProgressRendering  ProgressEventType = "rendering"
)

type ProgressEvent struct {
	Type    ProgressEventType
	Message string
}
