package di

import (
	apperrors "github.com/kbukum/depengine/errors"
)

var (
	// ErrNotFound matches every failed lookup, including stored values that
	// do not satisfy the requested type.
	ErrNotFound = apperrors.Sentinel(apperrors.ErrCodeNotFound)
	// ErrConstructionFailed matches errors returned by lazy factories.
	ErrConstructionFailed = apperrors.Sentinel(apperrors.ErrCodeConstructionFailed)
)

func notFound(key Key) error {
	return apperrors.NotFound(key.String())
}

func typeMismatch(key Key, v any) error {
	return apperrors.TypeMismatch(key.String(), typeName(v))
}

func constructionFailed(key Key, cause error) error {
	return apperrors.ConstructionFailed(key.String(), cause)
}
