package models

import (
	"regexp"

	"github.com/go-playground/validator"
)

// Platform is the chat platform a push goes out on.
type Platform string

const (
	PlatformTelegram Platform = "telegram"
	PlatformFeishu   Platform = "feishu"
	PlatformFCM      Platform = "fcm"
)

var platformPattern = regexp.MustCompile("^(telegram|feishu|fcm)$")

func ValidatePlatform(fl validator.FieldLevel) bool {
	return platformPattern.MatchString(fl.Field().String())
}
