package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type PostChatMessageRequest struct {
	Message string `json:"message"`
}

func (req *PostChatMessageRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Message, validation.Required, validation.RuneLength(1, 1000)),
	)
}
