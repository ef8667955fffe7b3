package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix    = "user:%d"
	PostKeyPrefix    = "post:slug:%s"
	SettingKeyPrefix = "setting:%s"
	PostListPrefix   = "posts:list:%s"
)

const (
	UserTTL    = 5 * time.Minute
	PostTTL    = 10 * time.Minute
	SettingTTL = 5 * time.Minute
	ListTTL    = time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func PostKey(slug string) string {
	return fmt.Sprintf(PostKeyPrefix, slug)
}

func SettingKey(key string) string {
	return fmt.Sprintf(SettingKeyPrefix, key)
}

func PostListKey(signature string) string {
	return fmt.Sprintf(PostListPrefix, signature)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidatePost(ctx context.Context, slug string) {
	Invalidate(ctx, PostKey(slug))
}

func InvalidateSetting(ctx context.Context, key string) {
	Invalidate(ctx, SettingKey(key))
}
