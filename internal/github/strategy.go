package github

import (
	"context"
)

// pageSize is the largest page the GraphQL connections accept.
const pageSize = 100

// Page is one page of a Relay connection.
type Page[T any] struct {
	TotalCount int      `json:"totalCount"`
	PageInfo   PageInfo `json:"pageInfo"`
	Nodes      []T      `json:"nodes"`
}

type PageInfo struct {
	HasNextPage bool   `json:"hasNextPage"`
	EndCursor   string `json:"endCursor"`
}

type pageFetcher[T any] func(ctx context.Context, after *string) (*Page[T], error)

// collectForward walks a connection with forward pagination (first/after)
// until it runs out of pages or has limit nodes. A limit of 0 collects
// everything.
func collectForward[T any](ctx context.Context, limit int, fetch pageFetcher[T]) ([]T, error) {
	var all []T
	var cursor *string

	for {
		page, err := fetch(ctx, cursor)
		if err != nil {
			return nil, err
		}

		all = append(all, page.Nodes...)
		if limit > 0 && len(all) >= limit {
			return all[:limit], nil
		}

		if !page.PageInfo.HasNextPage {
			break
		}
		cursor = &page.PageInfo.EndCursor
	}

	return all, nil
}
