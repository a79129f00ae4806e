package redis

import (
	"seqminer/cache"
	C "seqminer/config"

	"github.com/gomodule/redigo/redis"
)

func conn() (redis.Conn, error) {
	if !C.IsCacheEnabled() {
		return nil, cache.ErrorCacheDisabled
	}
	return C.GetCacheRedisConnection(), nil
}

// Set stores value under key. Zero expiryInSecs keeps the value forever.
func Set(key *cache.Key, value string, expiryInSecs float64) error {
	if key == nil {
		return cache.ErrorInvalidKey
	}
	if value == "" {
		return cache.ErrorInvalidValue
	}
	cKey, err := key.Key()
	if err != nil {
		return err
	}

	redisConn, err := conn()
	if err != nil {
		return err
	}
	defer redisConn.Close()

	if expiryInSecs == 0 {
		_, err = redisConn.Do("SET", cKey, value)
	} else {
		_, err = redisConn.Do("SET", cKey, value, "EX", int64(expiryInSecs))
	}
	return err
}

// Get returns redis.ErrNil when the key is missing.
func Get(key *cache.Key) (string, error) {
	if key == nil {
		return "", cache.ErrorInvalidKey
	}
	cKey, err := key.Key()
	if err != nil {
		return "", err
	}

	redisConn, err := conn()
	if err != nil {
		return "", err
	}
	defer redisConn.Close()

	return redis.String(redisConn.Do("GET", cKey))
}

// Del removes key. A missing key is not an error.
func Del(key *cache.Key) error {
	if key == nil {
		return cache.ErrorInvalidKey
	}
	cKey, err := key.Key()
	if err != nil {
		return err
	}

	redisConn, err := conn()
	if err != nil {
		return err
	}
	defer redisConn.Close()

	_, err = redisConn.Do("DEL", cKey)
	return err
}
