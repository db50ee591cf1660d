package domain

// WhisperModelOption describes one known whisper.cpp model preset usable
// by the on-device recognition fallback.
type WhisperModelOption struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	FileName    string `json:"fileName"`
	SizeLabel   string `json:"sizeLabel,omitempty"`
	Description string `json:"description,omitempty"`
	LocalPath   string `json:"localPath,omitempty"`
}
