package ttl

import "time"

// Clock abstrai a fonte de tempo em milissegundos desde epoch.
// Testes substituem por um relógio manual para tornar expiração determinística.
type Clock interface {
	NowMillis() int64
}

// SystemClock usa o relógio de parede do sistema
type SystemClock struct{}

func (SystemClock) NowMillis() int64 {
	return time.Now().UnixMilli()
}
