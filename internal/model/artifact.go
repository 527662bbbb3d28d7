// internal/model/artifact.go
package model

import "time"

// PdfArtifact is a rendered PDF written to the output directory.
type PdfArtifact struct {
	Key       string    `json:"key"`
	Path      string    `json:"path"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}
