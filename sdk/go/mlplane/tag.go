// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: Apache-2.0

package mlplane

import (
	"fmt"
	"sort"
)

// MaxTags is the largest number of tags accepted in one request.
const MaxTags = 50

// Tag is a key/value pair attached to a resource, e.g., for cost
// allocation. Tags do not affect a resource's lifecycle.
type Tag struct {
	Key   string `json:"Key"`
	Value string `json:"Value"`
}

func (t Tag) check(v *validator, path string) {
	if v.required(join(path, "Key"), t.Key) {
		v.length(join(path, "Key"), t.Key, 1, 128)
		v.pattern(join(path, "Key"), t.Key, tagRegexp)
	}
	v.length(join(path, "Value"), t.Value, 0, 256)
	v.pattern(join(path, "Value"), t.Value, tagRegexp)
}

func checkTags(v *validator, field string, tags []Tag) {
	v.listLen(field, len(tags), 0, MaxTags)
	checkEach(v, field, tags)
	seen := map[string]bool{}
	for _, t := range tags {
		if seen[t.Key] {
			v.errs = append(v.errs, &DuplicateKeyError{Field: field, Key: t.Key})
		}
		seen[t.Key] = true
	}
}

// TagList is a page of tags attached to a resource.
type TagList struct {
	Tags      []Tag  `json:"Tags"`
	NextToken string `json:"NextToken,omitempty"`
}

// PageItems implements Page.
func (l TagList) PageItems() []Tag { return l.Tags }

// PageToken implements Page.
func (l TagList) PageToken() string { return l.NextToken }

// addEntry inserts key into *m, allocating the map if needed. It
// refuses to replace an existing entry.
func addEntry(field string, m *map[string]string, key, value string) error {
	if *m == nil {
		*m = map[string]string{}
	} else if _, exists := (*m)[key]; exists {
		return &DuplicateKeyError{Field: field, Key: key}
	}
	(*m)[key] = value
	return nil
}

// entryErrors holds the DuplicateKeyErrors recorded by a builder's
// Add*Entry methods, by map field. Clearing or replacing a map
// discards its errors.
type entryErrors map[string]ValidationErrors

func (ee *entryErrors) record(field string, err error) {
	if err == nil {
		return
	}
	if *ee == nil {
		*ee = entryErrors{}
	}
	(*ee)[field] = append((*ee)[field], err)
}

func (ee entryErrors) forget(field string) {
	delete(ee, field)
}

// flatten returns the recorded errors ordered by field.
func (ee entryErrors) flatten() ValidationErrors {
	fields := make([]string, 0, len(ee))
	for f := range ee {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	var errs ValidationErrors
	for _, f := range fields {
		errs = append(errs, ee[f]...)
	}
	return errs
}

// TagsFromMap converts a map to a list of tags sorted by key.
func TagsFromMap(m map[string]string) []Tag {
	tags := make([]Tag, 0, len(m))
	for k, v := range m {
		tags = append(tags, Tag{Key: k, Value: v})
	}
	sortTags(tags)
	return tags
}

func sortTags(tags []Tag) {
	sort.Slice(tags, func(i, j int) bool { return tags[i].Key < tags[j].Key })
}

func (t Tag) String() string {
	return fmt.Sprintf("%s=%s", t.Key, t.Value)
}
