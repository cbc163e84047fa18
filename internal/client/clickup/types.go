package clickup

type ClickUpErrors struct {
	Err  string `json:"err"`
	Code string `json:"ECODE"`
}

type ClickUpTask struct {
	Id   string `json:"id"`
	Name string `json:"name"`
	Url  string `json:"url"`
}

type CreateTaskRequest struct {
	Name          string   `json:"name"`
	Description   string   `json:"description,omitempty"`
	Status        string   `json:"status,omitempty"`
	Tags          []string `json:"tags,omitempty"`
	StartDate     int64    `json:"start_date,omitempty"`
	StartDateTime bool     `json:"start_date_time,omitempty"`
}
