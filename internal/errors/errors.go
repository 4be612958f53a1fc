package errors

import "errors"

// ErrUpstream - провайдер рыночных данных недоступен или ответил не 2xx
var ErrUpstream = errors.New("upstream market data error")
