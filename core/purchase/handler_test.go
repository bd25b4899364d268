package purchase

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/irsalhamdi/course-market/api/weberr"
	"github.com/irsalhamdi/course-market/core/course"
)

func TestToWebError(t *testing.T) {
	tests := []struct {
		err    error
		status int
		reason string
	}{
		{ErrCourseNotFound, http.StatusNotFound, weberr.ReasonNotFound},
		{ErrPendingOrderNotFound, http.StatusNotFound, weberr.ReasonNotFound},
		{ErrAlreadyPurchased, http.StatusBadRequest, weberr.ReasonAlreadyPurchased},
		{ErrOrderExpired, http.StatusBadRequest, weberr.ReasonOrderExpired},
		{fmt.Errorf("%w: 422", ErrProviderDeclined), http.StatusBadRequest, weberr.ReasonProviderDeclined},
		{&InstrumentError{Field: "expiryMonth", Reason: "must be between 1 and 12"}, http.StatusBadRequest, weberr.ReasonInvalidInstrument},
		{fmt.Errorf("pricing: %w", course.ErrInvalidPrice), http.StatusBadRequest, weberr.ReasonBadRequest},
		{ErrUseRedirectFlow, http.StatusBadRequest, weberr.ReasonBadRequest},
	}

	for _, tt := range tests {
		body, status, ok := weberr.Response(toWebError(tt.err, nil))
		if !ok {
			t.Errorf("%v: expected a decorated error", tt.err)
			continue
		}

		if status != tt.status || body.Reason != tt.reason || body.Success {
			t.Errorf("%v: got %d %+v, want %d %s", tt.err, status, body, tt.status, tt.reason)
		}
	}

	ie := &InstrumentError{Field: "expiryMonth", Reason: "must be between 1 and 12"}
	decorated := toWebError(fmt.Errorf("checkout: %w", ie), map[string]any{"course_id": "ts-mastery"})
	body, _, _ := weberr.Response(decorated)
	if body.Message != "invalid expiryMonth: must be between 1 and 12" {
		t.Errorf("instrument message = %q", body.Message)
	}
	if fields := weberr.Fields(decorated); fields["field"] != "expiryMonth" || fields["course_id"] != "ts-mastery" || fields["reason"] != weberr.ReasonInvalidInstrument {
		t.Errorf("instrument log fields = %v", fields)
	}

	unexpected := toWebError(errors.New("db down"), map[string]any{"order_id": "O1"})
	if _, _, ok := weberr.Response(unexpected); ok {
		t.Error("unexpected errors must not choose a response")
	}
	if weberr.Fields(unexpected)["order_id"] != "O1" {
		t.Error("unexpected errors must keep their log fields")
	}
}
