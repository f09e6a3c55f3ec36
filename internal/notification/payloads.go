package notification

import (
	"sort"

	"github.com/spec-kit/request-service/internal/domain"
)

// ArchiveExportNotification describes a finished archive export.
// Every field except NfsLinksIncluded is omitted from JSON when empty.
type ArchiveExportNotification struct {
	DownloadLink              string            `json:"downloadLink,omitempty"`
	ArchiveType               string            `json:"archiveType,omitempty"`
	ExportScope               string            `json:"exportScope,omitempty"`
	ExportedUserOrGroupID     string            `json:"exportedUserOrGroupId,omitempty"`
	NfsLinksIncluded          bool              `json:"nfsLinksIncluded"`
	MaxNfsFileSize            int64             `json:"maxNfsFileSize,omitempty"`
	ExcludedNfsFileExtensions []string          `json:"excludedNfsFileExtensions,omitempty"`
	ExportedRecords           []ExportedRecord  `json:"exportedRecords,omitempty"`
	ExportedNfsLinks          []ExportedNfsLink `json:"exportedNfsLinks,omitempty"`
}

// ExportedRecord is one record included in an archive.
type ExportedRecord struct {
	GlobalID               string `json:"globalId,omitempty"`
	Name                   string `json:"name,omitempty"`
	ExportedParentGlobalID string `json:"exportedParentGlobalId,omitempty"`
}

// ExportedNfsLink is one filestore link processed during an export.
type ExportedNfsLink struct {
	FileSystemName         string `json:"fileSystemName,omitempty"`
	FileStorePath          string `json:"fileStorePath,omitempty"`
	RelativePath           string `json:"relativePath,omitempty"`
	AddedToArchive         bool   `json:"addedToArchive,omitempty"`
	ErrorMsg               string `json:"errorMsg,omitempty"`
	FolderLink             bool   `json:"folderLink,omitempty"`
	FolderExportSummaryMsg string `json:"folderExportSummaryMsg,omitempty"`
}

// ExcludeExtensions adds extensions to the excluded set, keeping it sorted and unique.
func (a *ArchiveExportNotification) ExcludeExtensions(extensions ...string) {
	set := make(map[string]struct{}, len(a.ExcludedNfsFileExtensions)+len(extensions))
	for _, ext := range a.ExcludedNfsFileExtensions {
		set[ext] = struct{}{}
	}
	for _, ext := range extensions {
		if ext != "" {
			set[ext] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for ext := range set {
		out = append(out, ext)
	}
	sort.Strings(out)
	a.ExcludedNfsFileExtensions = out
}

// RequestStatusChangeNotification tells an originator that a request changed status.
type RequestStatusChangeNotification struct {
	CommunicationID string                     `json:"communicationId,omitempty"`
	MessageType     domain.MessageType         `json:"messageType,omitempty"`
	OldStatus       domain.CommunicationStatus `json:"oldStatus,omitempty"`
	NewStatus       domain.CommunicationStatus `json:"newStatus,omitempty"`
	ChangedBy       string                     `json:"changedBy,omitempty"`
}
