/*
Copyright © 2026 the ncbrowse authors.
This file is part of ncbrowse.

ncbrowse is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

ncbrowse is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with ncbrowse.  If not, see <http://www.gnu.org/licenses/>.
*/

package ncbrowse

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/ctessum/requestcache"
)

// A Resolver realizes slices of one variable from validated selections.
// Repeated requests for the same selection are served from an in-memory
// cache, and identical concurrent requests are deduplicated, so
// revisiting an index the user has already looked at does not touch
// storage again.
type Resolver struct {
	src ArraySource

	// CacheSize is the number of realized slices held in memory.
	// It can only be changed before the first Resolve call.
	CacheSize int

	cache     *requestcache.Cache
	cacheInit sync.Once
}

// NewResolver creates a Resolver for src.
func NewResolver(src ArraySource) *Resolver {
	return &Resolver{src: src, CacheSize: 100}
}

// Resolve produces the realized slice described by sel. sel must refer
// to the resolver's variable and must satisfy the selection invariants;
// because callers validate selections at mutation time, any slicing
// failure here is reported as an InternalInconsistencyErr rather than
// being papered over with defaults.
func (r *Resolver) Resolve(ctx context.Context, sel *Selection) (*Slice, error) {
	if sel.Variable != r.src.Name() {
		return nil, InternalInconsistencyErr{Variable: sel.Variable,
			Err: fmt.Errorf("selection refers to %q but the resolver reads %q", sel.Variable, r.src.Name())}
	}
	if err := sel.Validate(); err != nil {
		return nil, InternalInconsistencyErr{Variable: sel.Variable, Err: err}
	}
	r.cacheInit.Do(func() {
		r.cache = requestcache.NewCache(func(ctx context.Context, request interface{}) (interface{}, error) {
			s := request.(*Selection)
			return r.src.Slice(s.Fixed, s.X, s.Y)
		}, runtime.GOMAXPROCS(-1),
			requestcache.Deduplicate(), requestcache.Memory(r.CacheSize))
	})
	req := r.cache.NewRequest(ctx, sel.Clone(), resolveKey(sel))
	result, err := req.Result()
	if err != nil {
		switch err.(type) {
		case DimensionMismatchErr, IndexOutOfRangeErr:
			// The selection was valid, so the source disagrees with
			// the metadata it reported.
			return nil, InternalInconsistencyErr{Variable: sel.Variable, Err: err}
		}
		return nil, err
	}
	return result.(*Slice), nil
}

// resolveKey returns a deterministic cache key for sel.
func resolveKey(sel *Selection) string {
	names := make([]string, 0, len(sel.Fixed))
	for name := range sel.Fixed {
		names = append(names, name)
	}
	sort.Strings(names)
	var b strings.Builder
	fmt.Fprintf(&b, "%s|%s|%s", sel.Variable, sel.X, sel.Y)
	for _, name := range names {
		fmt.Fprintf(&b, "|%s=%d", name, sel.Fixed[name])
	}
	return b.String()
}
