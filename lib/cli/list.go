// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package cli

import (
	"fmt"
	"io"
	"time"

	"git.arvados.org/mlplane.git/lib/cmd"
	"git.arvados.org/mlplane.git/sdk/go/mlplane"
	"github.com/dustin/go-humanize"
)

// ListCommand lists resources of one kind.
var ListCommand cmd.Handler = listCommand{}

type listCommand struct{}

func (listCommand) RunCommand(prog string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var err error
	defer func() {
		if err != nil {
			fmt.Fprintf(stderr, "%s\n", err)
		}
	}()

	flags, common := newFlagSet(stdin, stderr)
	all := flags.Bool("all", false, "Fetch every page, not just the first")
	flags.Alias("a", "all")
	nameContains := flags.String("name-contains", "", "Only list resources whose name contains `substring`")
	status := flags.String("status", "", "Only list resources with the given `status`")
	sortBy := flags.String("sort-by", "", "Sort by `key`: Name, CreationTime, or Status")
	sortOrder := flags.String("sort-order", "", "Sort `order`: Ascending or Descending")
	createdAfter := flags.String("created-after", "", "Only list resources created after `time` (RFC3339)")
	createdBefore := flags.String("created-before", "", "Only list resources created before `time` (RFC3339)")
	modifiedAfter := flags.String("modified-after", "", "Only list resources modified after `time` (RFC3339)")
	modifiedBefore := flags.String("modified-before", "", "Only list resources modified before `time` (RFC3339)")
	maxResults := flags.Int("max-results", 0, "Page `size` (default is the profile's PageSize)")
	nextToken := flags.String("next-token", "", "Continue a previous listing from `token`")
	if ok, code := cmd.ParseFlags(flags, prog, args, "kind", stderr); !ok {
		return code
	} else if flags.NArg() != 1 {
		err = fmt.Errorf("usage: %s [options] kind", prog)
		return 2
	}
	kind, err := parseKind(flags.Arg(0))
	if err != nil {
		return 2
	}

	sess, err := common.setup(stderr)
	if err != nil {
		return 1
	}
	defer sess.close()

	b := mlplane.NewListOptions(kind).
		WithNameContains(*nameContains).
		WithNextToken(*nextToken)
	if *status != "" {
		var st mlplane.Status
		st, err = kind.ParseStatus(*status)
		if err != nil {
			return 2
		}
		b.WithStatusEquals(st)
	}
	if *sortBy != "" || *sortOrder != "" {
		var by mlplane.SortBy
		var order mlplane.SortOrder
		if *sortBy != "" {
			if by, err = mlplane.ParseSortBy(*sortBy); err != nil {
				return 2
			}
		}
		if *sortOrder != "" {
			if order, err = mlplane.ParseSortOrder(*sortOrder); err != nil {
				return 2
			}
		}
		b.WithSort(by, order)
	}
	var times [4]time.Time
	for i, s := range []*string{createdAfter, createdBefore, modifiedAfter, modifiedBefore} {
		if *s == "" {
			continue
		}
		if times[i], err = time.Parse(time.RFC3339, *s); err != nil {
			return 2
		}
	}
	b.WithCreationTimeWindow(times[0], times[1])
	b.WithLastModifiedTimeWindow(times[2], times[3])
	if *maxResults == 0 {
		*maxResults = sess.profile.PageSize
	}
	b.WithMaxResults(*maxResults)
	opts, err := b.Build()
	if err != nil {
		return 2
	}

	pages, err := mlplane.ResourcePages(sess.api, kind, opts)
	if err != nil {
		return 1
	}
	ctx, cancel := sess.context()
	defer cancel()
	var items []mlplane.Resource
	if *all {
		items, err = pages.All(ctx)
	} else {
		items, err = pages.Next(ctx)
	}
	if err != nil {
		return 1
	}

	if common.Format != FormatText {
		err = writeStructured(stdout, common.Format, struct {
			Items     []mlplane.Resource
			NextToken string `json:",omitempty"`
		}{items, pages.NextToken()})
		if err != nil {
			return 1
		}
		return 0
	}
	writeTable(stdout, items)
	sess.logger.Debugf("fetched %d pages", pages.Pages())
	fmt.Fprintf(stderr, "%s %s resources listed\n", humanize.Comma(int64(len(items))), kind)
	if token := pages.NextToken(); token != "" {
		fmt.Fprintf(stderr, "more results available: --next-token=%s\n", token)
	}
	return 0
}
