package client

import (
	"context"
	"encoding/json"
	goerrors "errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	ngsierrors "github.com/CTU-SematX/LegoCity/pkg/ngsild/errors"
	"github.com/CTU-SematX/LegoCity/pkg/ngsild/types"
	"github.com/CTU-SematX/LegoCity/pkg/ngsild/types/entities"
	"github.com/CTU-SematX/LegoCity/pkg/ngsild/types/entities/decorators"
	testutils "github.com/diwise/service-chassis/pkg/test/http"
	"github.com/diwise/service-chassis/pkg/test/http/expects"
	"github.com/diwise/service-chassis/pkg/test/http/response"

	"github.com/matryer/is"
)

var Expects = testutils.Expects
var Returns = testutils.Returns
var anyInput = expects.AnyInput
var method = expects.RequestMethod
var path = expects.RequestPath

func TestCreateEntity(t *testing.T) {
	is := is.New(t)

	locationHeader := "/ngsi-ld/v1/entities/id"
	s := testutils.NewMockServiceThat(
		Expects(
			is,
			method(http.MethodPost),
			path("/ngsi-ld/v1/entities"),
		),
		Returns(
			response.ContentType("application/ld+json"),
			response.Location(locationHeader),
			response.Code(http.StatusCreated),
		),
	)
	defer s.Close()

	c := NewContextBrokerClient(s.URL())

	result, err := c.CreateEntity(context.Background(), testEntity("Road", "id"), nil)

	is.NoErr(err)
	is.Equal(result.Location(), locationHeader)
}

func TestCreateEntityHandlesMissingLocationHeader(t *testing.T) {
	is := is.New(t)

	s := testutils.NewMockServiceThat(
		Expects(is, anyInput()),
		Returns(
			response.ContentType("application/ld+json"),
			response.Code(http.StatusCreated),
		),
	)
	defer s.Close()

	c := NewContextBrokerClient(s.URL())

	result, err := c.CreateEntity(context.Background(), testEntity("Road", "id"), nil)

	is.NoErr(err)
	is.Equal(result.Location(), "/ngsi-ld/v1/entities/id")
}

func TestCreateEntityThrowsErrorOnNon201Success(t *testing.T) {
	is := is.New(t)

	s := testutils.NewMockServiceThat(
		Expects(is, anyInput()),
		Returns(response.Code(http.StatusNoContent)),
	)
	defer s.Close()

	c := NewContextBrokerClient(s.URL())

	_, err := c.CreateEntity(context.Background(), testEntity("Road", "id"), nil)

	is.True(err != nil)
	is.Equal(err.Error(), "unexpected response code 204 (internal error)")
}

func TestCreateEntityHandlesAlreadyExistsError(t *testing.T) {
	is := is.New(t)

	pr := ngsierrors.NewBadRequestData("already exists", "traceID")
	b, _ := json.Marshal(pr)

	s := testutils.NewMockServiceThat(
		Expects(is, anyInput()),
		Returns(
			response.ContentType("application/problem+json"),
			response.Code(http.StatusConflict),
			response.Body(b),
		),
	)
	defer s.Close()

	c := NewContextBrokerClient(s.URL())

	_, err := c.CreateEntity(context.Background(), testEntity("Road", "id"), nil)

	is.True(goerrors.Is(err, ngsierrors.ErrAlreadyExists))
}

func TestUpdateEntityAttributesSendsContextLinkHeader(t *testing.T) {
	is := is.New(t)

	var linkHeader string

	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		is.Equal(r.Method, http.MethodPatch)
		is.Equal(r.URL.Path, "/ngsi-ld/v1/entities/id/attrs")
		linkHeader = r.Header.Get("Link")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer s.Close()

	c := NewContextBrokerClient(s.URL)

	fragment, err := entities.NewFragment(decorators.Number("waterLevel", 1.5))
	is.NoErr(err)

	result, err := c.UpdateEntityAttributes(context.Background(), "id", fragment, nil)
	is.NoErr(err)
	is.True(!result.IsMultiStatus())
	is.True(strings.Contains(linkHeader, entities.DefaultContextURL))
}

func TestUpsertCreatesWhenEntityIsUnknown(t *testing.T) {
	is := is.New(t)

	s := testutils.NewMockServiceThat(
		Expects(is, method(http.MethodPost)),
		Returns(response.Code(http.StatusCreated)),
	)
	defer s.Close()

	c := NewContextBrokerClient(s.URL())

	created, err := c.Upsert(context.Background(), testEntity("Road", "id"))

	is.NoErr(err)
	is.True(created)
}

func TestUpsertFallsBackToPatchOnConflict(t *testing.T) {
	is := is.New(t)

	pr := ngsierrors.NewBadRequestData("already exists", "traceID")
	b, _ := json.Marshal(pr)

	requestCount := 0
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestCount++
		if r.Method == http.MethodPost {
			w.Header().Set("Content-Type", "application/problem+json")
			w.WriteHeader(http.StatusConflict)
			w.Write(b)
			return
		}
		is.Equal(r.Method, http.MethodPatch)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer s.Close()

	c := NewContextBrokerClient(s.URL)

	created, err := c.Upsert(context.Background(), testEntity("Road", "id"))

	is.NoErr(err)
	is.True(!created)
	is.Equal(requestCount, 2)
}

func TestWaitForReadinessGivesUpAfterMaxAttempts(t *testing.T) {
	is := is.New(t)

	s := testutils.NewMockServiceThat(
		Expects(is, anyInput()),
		Returns(response.Code(http.StatusServiceUnavailable)),
	)
	defer s.Close()

	c := NewContextBrokerClient(s.URL())

	err := c.WaitForReadiness(context.Background(), 2, 1*time.Millisecond)
	is.True(err != nil)
}

func TestWaitForReadinessReturnsOnFirstSuccess(t *testing.T) {
	is := is.New(t)

	s := testutils.NewMockServiceThat(
		Expects(is, method(http.MethodGet), path("/version")),
		Returns(response.Code(http.StatusOK)),
	)
	defer s.Close()

	c := NewContextBrokerClient(s.URL())

	is.NoErr(c.WaitForReadiness(context.Background(), 1, 1*time.Millisecond))
}

func testEntity(entityType, entityID string, decs ...entities.EntityDecoratorFunc) types.Entity {
	e, err := entities.New(entityID, entityType, decs...)
	if err != nil {
		panic(err)
	}

	return e
}
