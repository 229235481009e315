// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package dataverse

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
)

// ListResponse is the OData collection envelope.
type ListResponse[T any] struct {
	Value []*T `json:"value"`
}

type listRequestInfo struct {
	filter       *string
	selectFields *string
	orderBy      *string
	top          *int
}

// ListRequestBuilder provides common functionality for entity list
// operations, including $filter, $select, $orderby and $top.
type ListRequestBuilder[T any] struct {
	client      *Client
	entitySet   string
	requestInfo *listRequestInfo
}

func newListRequestBuilder[T any](client *Client, entitySet string) *ListRequestBuilder[T] {
	return &ListRequestBuilder[T]{
		client:      client,
		entitySet:   entitySet,
		requestInfo: &listRequestInfo{},
	}
}

func (b *ListRequestBuilder[T]) Filter(filterExpression string) *ListRequestBuilder[T] {
	b.requestInfo.filter = &filterExpression

	return b
}

func (b *ListRequestBuilder[T]) Select(fields string) *ListRequestBuilder[T] {
	b.requestInfo.selectFields = &fields

	return b
}

func (b *ListRequestBuilder[T]) OrderBy(expression string) *ListRequestBuilder[T] {
	b.requestInfo.orderBy = &expression

	return b
}

func (b *ListRequestBuilder[T]) Top(count int) *ListRequestBuilder[T] {
	b.requestInfo.top = &count

	return b
}

func (b *ListRequestBuilder[T]) Get(ctx context.Context) ([]*T, error) {
	req, err := b.client.createRequest(ctx, http.MethodGet, b.entitySet)
	if err != nil {
		return nil, err
	}

	raw := req.Raw()
	query := raw.URL.Query()

	if b.requestInfo.filter != nil {
		query.Set("$filter", *b.requestInfo.filter)
	}

	if b.requestInfo.selectFields != nil {
		query.Set("$select", *b.requestInfo.selectFields)
	}

	if b.requestInfo.orderBy != nil {
		query.Set("$orderby", *b.requestInfo.orderBy)
	}

	if b.requestInfo.top != nil {
		query.Set("$top", fmt.Sprint(*b.requestInfo.top))
	}

	raw.URL.RawQuery = query.Encode()

	res, err := b.client.pipeline.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if !runtime.HasStatusCode(res, http.StatusOK) {
		return nil, newRequestError(res)
	}

	response, err := readJSON[ListResponse[T]](res)
	if err != nil {
		return nil, err
	}

	return response.Value, nil
}
