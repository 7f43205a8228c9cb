package utils

import (
	"crypto/md5"
	"encoding/hex"
)

// StringMD5 计算字符串MD5，用作缓存键
func StringMD5(data string) string {
	return BytesMD5([]byte(data))
}

// BytesMD5 计算字节数组MD5
func BytesMD5(data []byte) string {
	hash := md5.New()
	hash.Write(data)
	return hex.EncodeToString(hash.Sum(nil))
}
