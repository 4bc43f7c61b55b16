package app

import (
	"context"
	"strings"
	"sync"

	"merchhold/adapters/excel"
	"merchhold/domain/schema"
	"merchhold/internal"
	"merchhold/internal/errors"
	"merchhold/ports"
)

// UpdateRequest is one user edit submission against an external
// spreadsheet resource. It is constructed per submission, consumed
// once, and discarded.
type UpdateRequest struct {
	ResourceKind ports.ResourceKind
	RowKey       string
	Patch        map[schema.Field]string
}

// UpdateResult reports a successful update cycle.
type UpdateResult struct {
	Resource      string
	Sheet         string
	RowNumber     int // 1-based sheet row that was patched
	FieldsApplied []schema.Field
}

// AppendResult reports a successful bulk append.
type AppendResult struct {
	Resource  string
	Sheet     string
	RowsAdded int
}

// UpdaterService performs the read-locate-patch-rewrite cycle against
// an external spreadsheet. The whole resource is round-tripped on every
// cycle, so a per-resource mutex serializes overlapping Update and
// Append calls; without it, concurrent cycles would silently drop one
// side's change.
type UpdaterService struct {
	handles  ports.ResourceHandleStore
	resolver *schema.Resolver
	log      *internal.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewUpdaterService creates the updater over a handle store and the
// shared column resolver.
func NewUpdaterService(handles ports.ResourceHandleStore, resolver *schema.Resolver) *UpdaterService {
	return &UpdaterService{
		handles:  handles,
		resolver: resolver,
		log:      internal.DefaultLogger,
		locks:    make(map[string]*sync.Mutex),
	}
}

// lockFor returns the mutex guarding one resource identity.
func (s *UpdaterService) lockFor(resource string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[resource]
	if !ok {
		l = &sync.Mutex{}
		s.locks[resource] = l
	}
	return l
}

// Update runs the full cycle: acquire handle, verify access, read,
// select sheet, locate row, patch cells, rewrite. Failures never
// partially apply: either the whole patched sheet is written back or
// the resource is untouched. Unresolvable patch fields are skipped
// silently; only the identifier column and the target row are hard
// requirements.
func (s *UpdaterService) Update(ctx context.Context, req UpdateRequest) (*UpdateResult, error) {
	handle, err := s.handles.Get(ctx, req.ResourceKind)
	if err != nil {
		return nil, err
	}

	lock := s.lockFor(handle.Name())
	lock.Lock()
	defer lock.Unlock()

	wb, sheet, err := s.openTargetSheet(ctx, handle, req.ResourceKind)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	rows, err := wb.Rows(sheet)
	if err != nil {
		return nil, errors.ResourceUnavailable(handle.Name(), err)
	}
	if len(rows) == 0 {
		return nil, errors.ColumnNotFound(handle.Name(), string(schema.FieldIdentifier))
	}

	header := trimmedHeader(rows[0])
	idCol, ok := s.resolver.Resolve(schema.FieldIdentifier, header, "")
	if !ok {
		return nil, errors.ColumnNotFound(handle.Name(), string(schema.FieldIdentifier))
	}
	idIdx := columnIndex(header, idCol)

	rowIdx := -1
	rowKey := schema.Normalize(req.RowKey)
	for i := 1; i < len(rows); i++ {
		if idIdx < len(rows[i]) && schema.Normalize(rows[i][idIdx]) == rowKey {
			rowIdx = i
			break
		}
	}
	if rowIdx < 0 {
		return nil, errors.RowNotFound(handle.Name(), req.RowKey)
	}

	applied := s.patchRow(rows, rowIdx, header, req.Patch)

	if err := s.rewrite(ctx, handle, wb, sheet, rows); err != nil {
		return nil, err
	}

	s.log.Info("[Updater] %s: patched row %d of sheet %q (%d fields)",
		handle.Name(), rowIdx+1, sheet, len(applied))
	return &UpdateResult{
		Resource:      handle.Name(),
		Sheet:         sheet,
		RowNumber:     rowIdx + 1,
		FieldsApplied: applied,
	}, nil
}

// Append adds newly created records in bulk. Target columns come from
// the existing sheet's header row, or from the first record's field
// labels when the sheet has no rows at all.
func (s *UpdaterService) Append(ctx context.Context, kind ports.ResourceKind, records []map[schema.Field]string) (*AppendResult, error) {
	handle, err := s.handles.Get(ctx, kind)
	if err != nil {
		return nil, err
	}

	// An empty batch must not round-trip the resource; rewriting it
	// would be a pure no-op write with last-writer-wins exposure.
	if len(records) == 0 {
		return &AppendResult{Resource: handle.Name(), RowsAdded: 0}, nil
	}

	lock := s.lockFor(handle.Name())
	lock.Lock()
	defer lock.Unlock()

	wb, sheet, err := s.openTargetSheet(ctx, handle, kind)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	rows, err := wb.Rows(sheet)
	if err != nil {
		return nil, errors.ResourceUnavailable(handle.Name(), err)
	}

	var header []string
	if len(rows) > 0 {
		header = trimmedHeader(rows[0])
	} else if len(records) > 0 {
		for _, field := range schema.AllFields {
			if _, ok := records[0][field]; ok {
				header = append(header, field.Label())
			}
		}
		rows = append(rows, header)
	}

	for _, rec := range records {
		row := make([]string, len(header))
		for _, field := range schema.AllFields {
			value, ok := rec[field]
			if !ok {
				continue
			}
			col, ok := s.resolver.ResolveStrict(field, header, "")
			if !ok {
				continue
			}
			row[columnIndex(header, col)] = value
		}
		rows = append(rows, row)
	}

	if err := s.rewrite(ctx, handle, wb, sheet, rows); err != nil {
		return nil, err
	}

	s.log.Info("[Updater] %s: appended %d rows to sheet %q", handle.Name(), len(records), sheet)
	return &AppendResult{
		Resource:  handle.Name(),
		Sheet:     sheet,
		RowsAdded: len(records),
	}, nil
}

// openTargetSheet covers cycle steps 1-4 shared by Update and Append:
// verify access, read the resource, and pick the target sheet.
func (s *UpdaterService) openTargetSheet(ctx context.Context, handle ports.ResourceHandle, kind ports.ResourceKind) (*excel.Workbook, string, error) {
	if err := handle.Verify(ctx); err != nil {
		return nil, "", err
	}

	data, err := handle.ReadAll(ctx)
	if err != nil {
		return nil, "", err
	}
	wb, err := excel.OpenWorkbook(data)
	if err != nil {
		return nil, "", errors.ResourceUnavailable(handle.Name(), err)
	}

	sheet, err := selectSheet(handle.Name(), wb.SheetNames(), kind)
	if err != nil {
		wb.Close()
		return nil, "", err
	}
	return wb, sheet, nil
}

// rewrite serializes the full in-memory sheet back into the resource
// and replaces the whole file. Once this starts it runs to completion
// or fails outright; there is no resumable half-written state.
func (s *UpdaterService) rewrite(ctx context.Context, handle ports.ResourceHandle, wb *excel.Workbook, sheet string, rows [][]string) error {
	if err := wb.WriteRows(sheet, rows); err != nil {
		return errors.WriteError(handle.Name(), err)
	}
	out, err := wb.Bytes()
	if err != nil {
		return errors.WriteError(handle.Name(), err)
	}
	return handle.WriteAll(ctx, out)
}

// patchRow overwrites the patched cells in the in-memory row. Fields
// whose column cannot be resolved are skipped: the destination table
// may simply lack that concept. Patch order follows the canonical
// field order so repeated runs apply identically.
func (s *UpdaterService) patchRow(rows [][]string, rowIdx int, header []string, patch map[schema.Field]string) []schema.Field {
	var applied []schema.Field
	for _, field := range schema.AllFields {
		value, ok := patch[field]
		if !ok {
			continue
		}
		col, ok := s.resolver.ResolveStrict(field, header, "")
		if !ok {
			continue
		}
		colIdx := columnIndex(header, col)
		for len(rows[rowIdx]) <= colIdx {
			rows[rowIdx] = append(rows[rowIdx], "")
		}
		rows[rowIdx][colIdx] = value
		applied = append(applied, field)
	}
	return applied
}

// selectSheet picks the sheet whose normalized name contains the
// resource kind's token, falling back to the sole sheet when exactly
// one exists.
func selectSheet(resource string, sheets []string, kind ports.ResourceKind) (string, error) {
	token := schema.Normalize(kind.Token())
	for _, sheet := range sheets {
		if strings.Contains(schema.Normalize(sheet), token) {
			return sheet, nil
		}
	}
	if len(sheets) == 1 {
		return sheets[0], nil
	}
	return "", errors.AmbiguousSheet(resource, len(sheets))
}

func trimmedHeader(row []string) []string {
	header := make([]string, len(row))
	for i, cell := range row {
		header[i] = strings.TrimSpace(cell)
	}
	return header
}

func columnIndex(header []string, col string) int {
	for i, h := range header {
		if h == col {
			return i
		}
	}
	return -1
}
