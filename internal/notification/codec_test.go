package notification_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/request-service/internal/domain"
	"github.com/spec-kit/request-service/internal/notification"
)

func TestToJSON_OmitsEmptyFields(t *testing.T) {
	codec := notification.NewPayloadCodec(nil, nil)

	raw, err := codec.ToJSON(&notification.ArchiveExportNotification{})
	require.NoError(t, err)
	require.NotNil(t, raw)
	assert.Equal(t, `{"nfsLinksIncluded":false}`, *raw)

	raw, err = codec.ToJSON(&notification.ArchiveExportNotification{DownloadLink: "https://example.org/a.zip"})
	require.NoError(t, err)
	assert.Equal(t, `{"downloadLink":"https://example.org/a.zip","nfsLinksIncluded":false}`, *raw)
}

func TestToJSON_NilPayload(t *testing.T) {
	codec := notification.NewPayloadCodec(nil, nil)
	raw, err := codec.ToJSON(nil)
	require.NoError(t, err)
	assert.Nil(t, raw)

	raw, err = codec.ToJSON((*notification.ArchiveExportNotification)(nil))
	require.NoError(t, err)
	assert.Nil(t, raw)

	n := &domain.SystemNotification{NotificationType: domain.NotificationArchiveExportCompleted}
	require.NoError(t, codec.Attach(n, (*notification.RequestStatusChangeNotification)(nil)))
	assert.Nil(t, n.PayloadJSON)
}

func TestFromJSON_NullPayload(t *testing.T) {
	codec := notification.NewPayloadCodec(nil, nil)

	for _, raw := range []string{"null", " null\n"} {
		got, err := codec.FromJSON(domain.NotificationArchiveExportCompleted, raw)
		require.NoError(t, err)
		assert.Nil(t, got, "raw %q", raw)
	}

	stored := "null"
	archive, err := notification.PayloadAs[notification.ArchiveExportNotification](codec, &domain.SystemNotification{
		NotificationType: domain.NotificationArchiveExportCompleted,
		PayloadJSON:      &stored,
	})
	require.NoError(t, err)
	assert.Nil(t, archive)
}

func TestRoundTrip(t *testing.T) {
	codec := notification.NewPayloadCodec(nil, nil)

	payloads := map[string]*notification.ArchiveExportNotification{
		"empty":         {},
		"download only": {DownloadLink: "https://example.org/a.zip"},
		"full": {
			DownloadLink:          "https://example.org/b.zip",
			ArchiveType:           "html",
			ExportScope:           "user",
			ExportedUserOrGroupID: "u-42",
			NfsLinksIncluded:      true,
			MaxNfsFileSize:        1 << 20,
			ExportedRecords: []notification.ExportedRecord{
				{GlobalID: "SD1", Name: "Doc one"},
				{GlobalID: "SD2", Name: "Doc two", ExportedParentGlobalID: "FL1"},
			},
			ExportedNfsLinks: []notification.ExportedNfsLink{
				{FileSystemName: "irods", RelativePath: "data/a.csv", AddedToArchive: true},
				{FileSystemName: "irods", RelativePath: "data/big", FolderLink: true, ErrorMsg: "too large"},
			},
		},
	}
	payloads["full"].ExcludeExtensions("tmp", "bak", "tmp")

	for name, payload := range payloads {
		t.Run(name, func(t *testing.T) {
			raw, err := codec.ToJSON(payload)
			require.NoError(t, err)

			decoded, err := codec.FromJSON(domain.NotificationArchiveExportCompleted, *raw)
			require.NoError(t, err)
			got, ok := decoded.(*notification.ArchiveExportNotification)
			require.True(t, ok)
			if diff := cmp.Diff(payload, got); diff != "" {
				t.Errorf("round-trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
	assert.Equal(t, []string{"bak", "tmp"}, payloads["full"].ExcludedNfsFileExtensions)
}

func TestFromJSON_NoPayload(t *testing.T) {
	codec := notification.NewPayloadCodec(nil, nil)

	got, err := codec.FromJSON(domain.NotificationArchiveExportCompleted, "")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = codec.FromJSON(domain.NotificationDocumentShared, `{"downloadLink":"x"}`)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = codec.FromJSON(domain.NotificationType("SOMETHING_NEW"), `{"a":1}`)
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = codec.FromJSON(domain.NotificationArchiveExportCompleted, `{not json`)
	assert.Error(t, err)
}

func TestPayloadAs(t *testing.T) {
	codec := notification.NewPayloadCodec(nil, nil)
	n, err := domain.NewSystemNotification("system", domain.NotificationRequestStatusChange, "request completed", time.Now())
	require.NoError(t, err)

	empty, err := notification.PayloadAs[notification.RequestStatusChangeNotification](codec, n)
	require.NoError(t, err)
	assert.Nil(t, empty)

	require.NoError(t, codec.Attach(n, &notification.RequestStatusChangeNotification{
		CommunicationID: "c1",
		OldStatus:       domain.StatusNew,
		NewStatus:       domain.StatusCompleted,
	}))
	require.NotNil(t, n.PayloadJSON)

	payload, err := notification.PayloadAs[notification.RequestStatusChangeNotification](codec, n)
	require.NoError(t, err)
	require.NotNil(t, payload)
	assert.Equal(t, "c1", payload.CommunicationID)
	assert.Equal(t, domain.StatusCompleted, payload.NewStatus)

	wrong, err := notification.PayloadAs[notification.ArchiveExportNotification](codec, n)
	require.NoError(t, err)
	assert.Nil(t, wrong)
}

func TestCustomRegistry(t *testing.T) {
	codec := notification.NewPayloadCodec(nil, map[domain.NotificationType]func() any{})
	assert.False(t, codec.HasPayload(domain.NotificationArchiveExportCompleted))
	assert.True(t, notification.NewPayloadCodec(nil, nil).HasPayload(domain.NotificationArchiveExportCompleted))
}
