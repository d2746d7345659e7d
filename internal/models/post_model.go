package models

type Post struct {
	Slot        int      `json:"slot"`
	Date        string   `json:"date"`
	Scene       string   `json:"scene"`
	Caption     string   `json:"caption"`
	ScenePrompt string   `json:"scene_prompt"`
	ImageURL    string   `json:"image_url"`
	ImagePrompt string   `json:"image_prompt"`
	Seed        int64    `json:"seed"`
	Hashtags    []string `json:"hashtags,omitempty"`
	Status      string   `json:"status"` // draft, approved, published, rejected, regenerating
	ScheduledAt string   `json:"scheduled_at,omitempty"`
}

const (
	PostStatusDraft        = "draft"
	PostStatusApproved     = "approved"
	PostStatusPublished    = "published"
	PostStatusRejected     = "rejected"
	PostStatusRegenerating = "regenerating"
)

// RegeneratePrompt is the prompt sent on a regenerate call: the user-edited
// scene prompt when one exists, otherwise the prompt that produced the
// current image.
func (p *Post) RegeneratePrompt() string {
	if p.ScenePrompt != "" {
		return p.ScenePrompt
	}
	return p.ImagePrompt
}

// PendingRegeneration is a completed regeneration result that has not been
// accepted or discarded yet. The post it belongs to keeps its old image until
// the result is applied.
type PendingRegeneration struct {
	ID          string `json:"id"`
	Slot        int    `json:"slot"`
	ImageURL    string `json:"image_url"`
	ImagePrompt string `json:"image_prompt"`
}
