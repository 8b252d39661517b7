package ngsild

import (
	"encoding/json"
)

type CreateEntityResult struct {
	location string
}

func NewCreateEntityResult(location string) *CreateEntityResult {
	return &CreateEntityResult{
		location: location,
	}
}

func (r CreateEntityResult) Location() string {
	return r.location
}

type UpdateEntityAttributesResult struct {
	Updated    []string `json:"updated"`
	NotUpdated []struct {
		AttributeName string `json:"attributeName"`
		Reason        string `json:"reason"`
	} `json:"notUpdated"`
}

func (uear *UpdateEntityAttributesResult) Bytes() []byte {
	b, _ := json.Marshal(uear)
	return b
}

func (uear *UpdateEntityAttributesResult) IsMultiStatus() bool {
	return len(uear.NotUpdated) > 0
}

func NewUpdateEntityAttributesResult(body []byte) (*UpdateEntityAttributesResult, error) {
	uear := &UpdateEntityAttributesResult{}
	if len(body) > 0 {
		err := json.Unmarshal(body, uear)
		if err != nil {
			return nil, err
		}
	}
	return uear, nil
}

type DeleteEntityResult struct{}

func NewDeleteEntityResult() *DeleteEntityResult {
	return &DeleteEntityResult{}
}

// UpsertSummary accumulates per entity outcomes of a batch upsert,
// a failed entity never aborts the remainder of the batch
type UpsertSummary struct {
	Created int
	Updated int
	Failed  []UpsertFailure
}

type UpsertFailure struct {
	EntityID string
	Err      error
}

func (s *UpsertSummary) RecordCreated() {
	s.Created++
}

func (s *UpsertSummary) RecordUpdated() {
	s.Updated++
}

func (s *UpsertSummary) RecordFailure(entityID string, err error) {
	s.Failed = append(s.Failed, UpsertFailure{EntityID: entityID, Err: err})
}

func (s UpsertSummary) Succeeded() int {
	return s.Created + s.Updated
}
