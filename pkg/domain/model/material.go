package model

import "encoding/json"

// DefaultTopic is used as archive directory when a material has no title.
const DefaultTopic = "Untitled"

// CourseWorkMaterial is a Classroom course-work material as returned by the
// REST API. Both the list-shaped Materials field and the legacy singular
// Material field may be populated in one response.
type CourseWorkMaterial struct {
	ID            string          `json:"id,omitempty"`
	CourseID      string          `json:"courseId,omitempty"`
	Title         string          `json:"title,omitempty"`
	Description   string          `json:"description,omitempty"`
	State         string          `json:"state,omitempty"`
	AlternateLink string          `json:"alternateLink,omitempty"`
	TopicID       string          `json:"topicId,omitempty"`
	CreatorUserID string          `json:"creatorUserId,omitempty"`
	CreationTime  string          `json:"creationTime,omitempty"`
	UpdateTime    string          `json:"updateTime,omitempty"`
	Materials     []*MaterialItem `json:"materials,omitempty"`
	Material      *MaterialItem   `json:"material,omitempty"`
}

// CourseWorkMaterialList is one page of the courseWorkMaterials.list response.
type CourseWorkMaterialList struct {
	CourseWorkMaterial []*CourseWorkMaterial `json:"courseWorkMaterial,omitempty"`
	NextPageToken      string                `json:"nextPageToken,omitempty"`
}

// MaterialItem is a single attachment slot of a material. Only Drive files
// and folders are archived; the other kinds are passed through untouched.
type MaterialItem struct {
	DriveFile    *SharedDriveFile   `json:"driveFile,omitempty"`
	DriveFolder  *SharedDriveFolder `json:"driveFolder,omitempty"`
	Link         json.RawMessage    `json:"link,omitempty"`
	YoutubeVideo json.RawMessage    `json:"youtubeVideo,omitempty"`
	Form         json.RawMessage    `json:"form,omitempty"`
}

type SharedDriveFile struct {
	DriveFile *DriveItem `json:"driveFile,omitempty"`
	ShareMode string     `json:"shareMode,omitempty"`
}

type SharedDriveFolder struct {
	DriveFolder *DriveItem `json:"driveFolder,omitempty"`
	ShareMode   string     `json:"shareMode,omitempty"`
}

// DriveItem is the Classroom reference to a Drive file or folder.
type DriveItem struct {
	ID            string `json:"id,omitempty"`
	Title         string `json:"title,omitempty"`
	AlternateLink string `json:"alternateLink,omitempty"`
	ThumbnailURL  string `json:"thumbnailUrl,omitempty"`
}

// Attachment is either a DriveFileAttachment or a DriveFolderAttachment.
type Attachment interface {
	attachment()
}

type DriveFileAttachment struct {
	FileID string
	Title  string
}

type DriveFolderAttachment struct {
	FolderID string
	Title    string
}

func (DriveFileAttachment) attachment()   {}
func (DriveFolderAttachment) attachment() {}

// Material is the archive-relevant view of a CourseWorkMaterial.
type Material struct {
	ID          string
	Topic       string
	Attachments []Attachment
}

// NewMaterial collects the Drive attachments of m. Entries from the Materials
// list come first, followed by the legacy Material field; neither shadows
// the other.
func NewMaterial(m *CourseWorkMaterial) *Material {
	topic := m.Title
	if topic == "" {
		topic = DefaultTopic
	}

	result := &Material{
		ID:    m.ID,
		Topic: topic,
	}

	items := make([]*MaterialItem, 0, len(m.Materials)+1)
	items = append(items, m.Materials...)
	if m.Material != nil {
		items = append(items, m.Material)
	}

	for _, item := range items {
		result.Attachments = append(result.Attachments, item.attachments()...)
	}

	return result
}

// NewMaterials converts a list of course-work materials. Nil entries are skipped.
func NewMaterials(list []*CourseWorkMaterial) []*Material {
	materials := make([]*Material, 0, len(list))
	for _, m := range list {
		if m == nil {
			continue
		}
		materials = append(materials, NewMaterial(m))
	}
	return materials
}

func (x *MaterialItem) attachments() []Attachment {
	if x == nil {
		return nil
	}

	var out []Attachment
	if x.DriveFile != nil && x.DriveFile.DriveFile != nil && x.DriveFile.DriveFile.ID != "" {
		out = append(out, DriveFileAttachment{
			FileID: x.DriveFile.DriveFile.ID,
			Title:  x.DriveFile.DriveFile.Title,
		})
	}
	if x.DriveFolder != nil && x.DriveFolder.DriveFolder != nil && x.DriveFolder.DriveFolder.ID != "" {
		out = append(out, DriveFolderAttachment{
			FolderID: x.DriveFolder.DriveFolder.ID,
			Title:    x.DriveFolder.DriveFolder.Title,
		})
	}
	return out
}
