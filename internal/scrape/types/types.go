package types

import (
	"context"

	"coursehub-engine/internal/domain"
)

// Item is one candidate course emitted by an adapter. Exactly one of Raw or
// Err is meaningful: an extraction failure is reported as an item and the
// adapter moves on to the next one.
type Item struct {
	Raw domain.RawCourse
	Err error
}

// Adapter is the narrow capability a provider integration exposes. Fetch
// walks the source from its first page, emitting items as it extracts them;
// the sequence is finite and not restartable mid-run. Returning a non-nil
// error means the adapter could not produce anything at all (no session, no
// listing page) and the whole run is failed.
//
// An HTTP-parsing adapter and a full browser-automation one are
// interchangeable behind this interface.
type Adapter interface {
	Name() string
	Fetch(ctx context.Context, emit func(Item)) error
}
