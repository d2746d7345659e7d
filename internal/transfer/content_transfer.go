package transfer

type GenerateScheduleRequest struct {
	AppearanceText string `json:"appearance_text"`
}

type GeneratePostRequest struct {
	Date           string `json:"date"`
	AppearanceText string `json:"appearance_text"`
}

type RegenerateRequest struct {
	ScenePrompt string `json:"scene_prompt"`
	Instruction string `json:"instruction"`
	AccountID   string `json:"account_id"`
}

type RegenerateResponse struct {
	ImageURL    string `json:"image_url"`
	ImagePrompt string `json:"image_prompt"`
}

type PatchImageRequest struct {
	ImageURL    string `json:"image_url"`
	ImagePrompt string `json:"image_prompt"`
}

type PatchContentRequest struct {
	Caption     string `json:"caption"`
	ScenePrompt string `json:"scene_prompt"`
}

type AckResponse struct {
	Success bool `json:"success"`
}
