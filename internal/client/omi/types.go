package omi

type OmiError struct {
	Detail string `json:"detail"`
}
