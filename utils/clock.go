package utils

import "time"

// Clock da los timestamps que se escriben al crear y actualizar
type Clock interface {
	Now() time.Time
}

// SystemClock lee el reloj en UTC con resolución de microsegundos,
// lo máximo que guarda una columna datetime(6)
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// FixedClock siempre devuelve el mismo instante
// Los tests lo avanzan cambiando T
type FixedClock struct {
	T time.Time
}

func (c *FixedClock) Now() time.Time {
	return c.T
}
