// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: Apache-2.0

package mlplane

import (
	"context"
	"errors"
	"strings"
	"time"
)

const (
	MinMaxResults   = 1
	MaxMaxResults   = 100
	MaxNextTokenLen = 8192
)

// ListOptions are the filter, sort and pagination parameters accepted
// by every List API. All filters that are set must match; filters
// left unset impose no constraint.
type ListOptions struct {
	// Substring of the resource name.
	NameContains string `json:"NameContains,omitempty"`
	// Time bounds are exclusive. After and Before may be combined
	// to select a window.
	CreationTimeAfter      *time.Time `json:"CreationTimeAfter,omitempty"`
	CreationTimeBefore     *time.Time `json:"CreationTimeBefore,omitempty"`
	LastModifiedTimeAfter  *time.Time `json:"LastModifiedTimeAfter,omitempty"`
	LastModifiedTimeBefore *time.Time `json:"LastModifiedTimeBefore,omitempty"`
	// A status token of the listed kind.
	StatusEquals string    `json:"StatusEquals,omitempty"`
	SortBy       SortBy    `json:"SortBy,omitempty"`
	SortOrder    SortOrder `json:"SortOrder,omitempty"`
	// Continuation token from a previous page. It is opaque: pass
	// it back unmodified.
	NextToken string `json:"NextToken,omitempty"`
	// Page size. Nil means the service default. Values outside
	// [1, 100] are rejected, not clamped.
	MaxResults *int `json:"MaxResults,omitempty"`
}

// ValidateFor checks opts against the constraints of kind's List API.
// It returns nil or a ValidationErrors.
func (opts ListOptions) ValidateFor(kind ResourceKind) error {
	var v validator
	if !kind.Known() {
		v.fail("kind", "unknown resource kind", string(kind))
		return v.err()
	}
	v.length("NameContains", opts.NameContains, 0, kind.MaxNameLength())
	v.pattern("NameContains", opts.NameContains, nameContainsRegexp)
	if opts.MaxResults != nil {
		v.intRange("MaxResults", int64(*opts.MaxResults), MinMaxResults, MaxMaxResults)
	}
	v.length("NextToken", opts.NextToken, 0, MaxNextTokenLen)
	if opts.SortBy != "" {
		ok := false
		for _, k := range kind.SortKeys() {
			ok = ok || k == opts.SortBy
		}
		if !ok {
			v.fail("SortBy", "not supported for "+string(kind), string(opts.SortBy))
		}
	}
	checkEnum(&v, "SortOrder", sortOrders, opts.SortOrder)
	if opts.StatusEquals != "" {
		if !kind.HasStatus() {
			v.fail("StatusEquals", "not supported for "+string(kind), opts.StatusEquals)
		} else if _, err := kind.ParseStatus(opts.StatusEquals); err != nil {
			v.fail("StatusEquals", err.Error(), opts.StatusEquals)
		}
	}
	if !kinds[kind].modifiedFilters {
		if opts.LastModifiedTimeAfter != nil {
			v.fail("LastModifiedTimeAfter", "not supported for "+string(kind), nil)
		}
		if opts.LastModifiedTimeBefore != nil {
			v.fail("LastModifiedTimeBefore", "not supported for "+string(kind), nil)
		}
	}
	return v.err()
}

// Matches reports whether r satisfies every filter in opts. A
// resource that reports no modification time is treated as last
// modified when it was created.
func (opts ListOptions) Matches(r Resource) bool {
	if opts.NameContains != "" && !strings.Contains(r.ResourceName(), opts.NameContains) {
		return false
	}
	created := r.CreatedAt()
	if opts.CreationTimeAfter != nil && !created.After(*opts.CreationTimeAfter) {
		return false
	}
	if opts.CreationTimeBefore != nil && !created.Before(*opts.CreationTimeBefore) {
		return false
	}
	modified := r.ModifiedAt()
	if modified.IsZero() {
		modified = created
	}
	if opts.LastModifiedTimeAfter != nil && !modified.After(*opts.LastModifiedTimeAfter) {
		return false
	}
	if opts.LastModifiedTimeBefore != nil && !modified.Before(*opts.LastModifiedTimeBefore) {
		return false
	}
	if opts.StatusEquals != "" {
		st := r.ResourceStatus()
		if st == nil || st.String() != opts.StatusEquals {
			return false
		}
	}
	return true
}

// ListOptionsBuilder builds ListOptions for one resource kind.
type ListOptionsBuilder struct {
	kind ResourceKind
	opts ListOptions
}

func NewListOptions(kind ResourceKind) *ListOptionsBuilder {
	return &ListOptionsBuilder{kind: kind}
}

func (b *ListOptionsBuilder) WithNameContains(s string) *ListOptionsBuilder {
	b.opts.NameContains = s
	return b
}

// WithCreationTimeWindow sets the creation time bounds. A zero time
// leaves that bound unset.
func (b *ListOptionsBuilder) WithCreationTimeWindow(after, before time.Time) *ListOptionsBuilder {
	b.opts.CreationTimeAfter, b.opts.CreationTimeBefore = timePtr(after), timePtr(before)
	return b
}

// WithLastModifiedTimeWindow sets the modification time bounds. A
// zero time leaves that bound unset.
func (b *ListOptionsBuilder) WithLastModifiedTimeWindow(after, before time.Time) *ListOptionsBuilder {
	b.opts.LastModifiedTimeAfter, b.opts.LastModifiedTimeBefore = timePtr(after), timePtr(before)
	return b
}

func (b *ListOptionsBuilder) WithStatusEquals(st Status) *ListOptionsBuilder {
	b.opts.StatusEquals = st.String()
	return b
}

func (b *ListOptionsBuilder) WithSort(by SortBy, order SortOrder) *ListOptionsBuilder {
	b.opts.SortBy, b.opts.SortOrder = by, order
	return b
}

func (b *ListOptionsBuilder) WithMaxResults(n int) *ListOptionsBuilder {
	b.opts.MaxResults = &n
	return b
}

func (b *ListOptionsBuilder) WithNextToken(token string) *ListOptionsBuilder {
	b.opts.NextToken = token
	return b
}

// Build returns the options, or a ValidationErrors if they are not
// acceptable for the builder's kind.
func (b *ListOptionsBuilder) Build() (ListOptions, error) {
	if err := b.opts.ValidateFor(b.kind); err != nil {
		return ListOptions{}, err
	}
	return clone(b.opts), nil
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// PageState is the pagination state implied by a page's continuation
// token.
type PageState int

const (
	// HasMore means the page carried a token: another page may be
	// requested with it.
	HasMore PageState = iota
	// Exhausted means the page carried no token.
	Exhausted
)

func (s PageState) String() string {
	if s == HasMore {
		return "HasMore"
	}
	return "Exhausted"
}

// Page is implemented by every List result.
type Page[T any] interface {
	PageItems() []T
	PageToken() string
}

// PageStateOf returns the pagination state implied by a page's
// continuation token.
func PageStateOf(nextToken string) PageState {
	if nextToken == "" {
		return Exhausted
	}
	return HasMore
}

// ErrRepeatedToken is returned by a Paginator when the service hands
// back a continuation token it already returned, which would
// otherwise make the caller loop forever.
var ErrRepeatedToken = errors.New("list returned a continuation token it already returned")

// A Paginator fetches successive pages of a List API, feeding each
// page's continuation token into the next request.
type Paginator[T any] struct {
	fetch func(context.Context, ListOptions) ([]T, string, error)
	opts  ListOptions
	seen  map[string]bool
	state PageState
	pages int
}

// NewPaginator returns a Paginator that starts from opts (including
// opts.NextToken, if set) and calls fetch for each page.
func NewPaginator[T any](opts ListOptions, fetch func(context.Context, ListOptions) ([]T, string, error)) *Paginator[T] {
	return &Paginator[T]{fetch: fetch, opts: opts, seen: map[string]bool{}, state: HasMore}
}

// HasMore reports whether Next may return another page.
func (p *Paginator[T]) HasMore() bool { return p.state == HasMore }

// NextToken returns the continuation token Next will send, or "" if
// there are no more pages.
func (p *Paginator[T]) NextToken() string {
	if p.state == Exhausted {
		return ""
	}
	return p.opts.NextToken
}

// Pages returns the number of pages fetched so far.
func (p *Paginator[T]) Pages() int { return p.pages }

// Next fetches the next page. After the last page, HasMore returns
// false and Next returns (nil, nil).
func (p *Paginator[T]) Next(ctx context.Context) ([]T, error) {
	if p.state == Exhausted {
		return nil, nil
	}
	items, token, err := p.fetch(ctx, p.opts)
	if err != nil {
		return nil, err
	}
	p.pages++
	if token == "" {
		p.state = Exhausted
		return items, nil
	}
	if p.seen[token] || token == p.opts.NextToken {
		p.state = Exhausted
		return items, ErrRepeatedToken
	}
	p.seen[token] = true
	p.opts.NextToken = token
	return items, nil
}

// Each calls fn for every item on every remaining page, stopping at
// the first error.
func (p *Paginator[T]) Each(ctx context.Context, fn func(T) error) error {
	for p.HasMore() {
		items, err := p.Next(ctx)
		if err != nil {
			return err
		}
		for _, item := range items {
			if err := fn(item); err != nil {
				return err
			}
		}
	}
	return nil
}

// All returns the items of every remaining page.
func (p *Paginator[T]) All(ctx context.Context) ([]T, error) {
	var all []T
	err := p.Each(ctx, func(item T) error {
		all = append(all, item)
		return nil
	})
	return all, err
}

func pager[T any, P Page[T]](opts ListOptions, list func(context.Context, ListOptions) (P, error)) *Paginator[T] {
	return NewPaginator(opts, func(ctx context.Context, opts ListOptions) ([]T, string, error) {
		page, err := list(ctx, opts)
		if err != nil {
			return nil, "", err
		}
		return page.PageItems(), page.PageToken(), nil
	})
}

func TrainingJobPages(api API, opts ListOptions) *Paginator[TrainingJobSummary] {
	return pager[TrainingJobSummary](opts, api.TrainingJobList)
}

func TuningJobPages(api API, opts ListOptions) *Paginator[TuningJobSummary] {
	return pager[TuningJobSummary](opts, api.TuningJobList)
}

func LabelingJobPages(api API, opts ListOptions) *Paginator[LabelingJobSummary] {
	return pager[LabelingJobSummary](opts, api.LabelingJobList)
}

func TransformJobPages(api API, opts ListOptions) *Paginator[TransformJobSummary] {
	return pager[TransformJobSummary](opts, api.TransformJobList)
}

func EndpointPages(api API, opts ListOptions) *Paginator[EndpointSummary] {
	return pager[EndpointSummary](opts, api.EndpointList)
}

func NotebookInstancePages(api API, opts ListOptions) *Paginator[NotebookInstanceSummary] {
	return pager[NotebookInstanceSummary](opts, api.NotebookInstanceList)
}

func ModelPages(api API, opts ListOptions) *Paginator[ModelSummary] {
	return pager[ModelSummary](opts, api.ModelList)
}

// TagPages pages through the tags of the resource with the given ARN.
// Only opts.NextToken and opts.MaxResults are used.
func TagPages(api API, arn string, opts ListOptions) *Paginator[Tag] {
	return NewPaginator(opts, func(ctx context.Context, opts ListOptions) ([]Tag, string, error) {
		page, err := api.TagsList(ctx, ListTagsOptions{ResourceARN: arn, NextToken: opts.NextToken, MaxResults: opts.MaxResults})
		if err != nil {
			return nil, "", err
		}
		return page.Tags, page.NextToken, nil
	})
}

// ResourcePages pages through resources of any kind, returning each
// summary as a Resource.
func ResourcePages(api API, kind ResourceKind, opts ListOptions) (*Paginator[Resource], error) {
	var list func(context.Context, ListOptions) ([]Resource, string, error)
	switch kind {
	case KindTrainingJob:
		list = asResources[TrainingJobSummary](api.TrainingJobList)
	case KindTuningJob:
		list = asResources[TuningJobSummary](api.TuningJobList)
	case KindLabelingJob:
		list = asResources[LabelingJobSummary](api.LabelingJobList)
	case KindTransformJob:
		list = asResources[TransformJobSummary](api.TransformJobList)
	case KindEndpoint:
		list = asResources[EndpointSummary](api.EndpointList)
	case KindNotebookInstance:
		list = asResources[NotebookInstanceSummary](api.NotebookInstanceList)
	case KindModel:
		list = asResources[ModelSummary](api.ModelList)
	default:
		return nil, &ValidationError{Field: "kind", Constraint: "unknown resource kind", Value: string(kind)}
	}
	return NewPaginator(opts, list), nil
}

func asResources[T Resource, P Page[T]](list func(context.Context, ListOptions) (P, error)) func(context.Context, ListOptions) ([]Resource, string, error) {
	return func(ctx context.Context, opts ListOptions) ([]Resource, string, error) {
		page, err := list(ctx, opts)
		if err != nil {
			return nil, "", err
		}
		items := page.PageItems()
		rs := make([]Resource, len(items))
		for i, item := range items {
			rs[i] = item
		}
		return rs, page.PageToken(), nil
	}
}
