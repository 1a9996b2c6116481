package clock

import "time"

// Clock 注入時間來源，讓過期邏輯可測試
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

// NewSystem 以 time.Now 為準的系統時鐘（UTC）
func NewSystem() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

type fixedClock struct {
	now time.Time
}

// NewFixed 永遠回傳同一時間點的時鐘，測試用
func NewFixed(t time.Time) Clock {
	return fixedClock{now: t.UTC()}
}

func (f fixedClock) Now() time.Time {
	return f.now
}
