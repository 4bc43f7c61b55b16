package ports

import (
	"context"
	"strings"
)

// ResourceKind names the external spreadsheet a field update targets.
type ResourceKind string

const (
	ResourceHold ResourceKind = "HOLD"
	ResourceRM   ResourceKind = "RM"
)

// Token returns the normalized token used to pick the target sheet
// inside a workbook ("hold" matches "Hold Sheet 2024").
func (k ResourceKind) Token() string {
	return strings.ToLower(string(k))
}

// ResourceHandle is a durable, opaque capability over one external
// spreadsheet file: read, permission-checked write, full-content
// replace. The engine never sees paths or storage details behind it.
type ResourceHandle interface {
	// Name identifies the resource for error context and logs.
	Name() string
	// Verify confirms read-write permission. In sandboxed embedding
	// environments this may require a prior user gesture; the engine
	// surfaces a refusal as PermissionDenied rather than retrying.
	Verify(ctx context.Context) error
	// ReadAll loads the full resource content.
	ReadAll(ctx context.Context) ([]byte, error)
	// WriteAll replaces the full resource content.
	WriteAll(ctx context.Context, data []byte) error
}

// ResourceHandleStore gets and sets the durable handle per kind.
// A missing handle is reported as NoLinkedResource by callers.
type ResourceHandleStore interface {
	Get(ctx context.Context, kind ResourceKind) (ResourceHandle, error)
	Set(ctx context.Context, kind ResourceKind, h ResourceHandle) error
}
