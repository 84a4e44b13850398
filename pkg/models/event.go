package models

// ProgressEvent is streamed to the caller once per completed batch and once at the end.
// The terminal event carries only ID and Message.
type ProgressEvent struct {
	ID           string         `json:"id"`
	Batch        int            `json:"batch,omitempty"`
	TotalBatches int            `json:"total_batches,omitempty"`
	Message      string         `json:"message"`
	BatchResult  []ProcessedRow `json:"batch_result,omitempty"`
}

// IsTerminal reports whether this is the completion event.
func (e ProgressEvent) IsTerminal() bool {
	return e.Batch == 0
}
