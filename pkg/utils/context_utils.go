package utils

import (
	"context"

	"os-sistema/pkg/contextkeys"
	apperrors "os-sistema/pkg/errors"
)

func GetUserIDFromCtx(ctx context.Context) (int64, error) {
	userID, ok := ctx.Value(contextkeys.UserIDKey).(int64)
	if !ok || userID == 0 {
		return 0, apperrors.ErrUserIDNotFoundInContext
	}
	return userID, nil
}

func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, contextkeys.UserIDKey, userID)
}
