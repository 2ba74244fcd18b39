package utils

type contextKey string

const (
	ContextKeyUserID  contextKey = "userId"
	ContextKeyLoaders contextKey = "loaders"
)
