package cache

import (
	"github.com/gomodule/redigo/redis"
)

func Del(key string, conn *redis.Conn) error {
	_, err := (*conn).Do("DEL", key)
	return err
}

func HSET(key string, field string, value interface{}, conn *redis.Conn) error {
	_, err := (*conn).Do("HSET", key, field, value)
	return err
}

// HGET returns "" without error for an unset field.
func HGET(key string, field string, conn *redis.Conn) (string, error) {
	res, err := redis.String((*conn).Do("HGET", key, field))
	if err == redis.ErrNil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return res, nil
}

func RPUSH(key string, value interface{}, conn *redis.Conn) error {
	_, err := (*conn).Do("RPUSH", key, value)
	return err
}

func LREM(key string, val string, conn *redis.Conn) error {
	_, err := (*conn).Do("LREM", key, 0, val)
	return err
}

func LRANGE(key string, conn *redis.Conn) ([]string, error) {
	values, err := redis.Strings((*conn).Do("LRANGE", key, 0, -1))
	if err == redis.ErrNil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return values, nil
}
