package errors

import "errors"

// ErrNoChanges signals that a submitted grid matches the snapshot after
// normalization. Not a failure: callers skip the write and report an
// informational notice.
var ErrNoChanges = errors.New("nenhuma alteração detectada")

// ErrSnapshotExpired signals that the snapshot referenced by a grid
// submission is no longer in the session store. The client must reload
// the grid and re-apply its edits.
var ErrSnapshotExpired = errors.New("a sessão de edição expirou, recarregue a grade")
