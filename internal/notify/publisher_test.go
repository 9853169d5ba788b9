package notify_test

import (
	"encoding/json"
	"testing"
	"time"

	"complaintflow/backend/internal/models"
	"complaintflow/backend/internal/notify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelFor(t *testing.T) {
	assert.Equal(t, "notify:user-42", notify.ChannelFor("user-42"))
}

func TestEventForRoundTrips(t *testing.T) {
	created := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	n := models.Notification{
		UserID:      "user-42",
		ComplaintID: "c-7",
		Description: "Complaint \"Broken projector\" has been escalated to you",
	}
	n.CreatedAt = created

	payload, err := json.Marshal(notify.EventFor(n))
	require.NoError(t, err)

	var ev notify.Event
	require.NoError(t, json.Unmarshal(payload, &ev))
	assert.Equal(t, "user-42", ev.UserID)
	assert.Equal(t, "c-7", ev.ComplaintID)
	assert.Equal(t, n.Description, ev.Description)
	assert.True(t, ev.CreatedAt.Equal(created))
}
