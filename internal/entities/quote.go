package entities

// Quote - курс обмена с учётом нашей маржи. OurRate округлён до копеек
// для отображения, OurRateExact хранит полное значение.
// Degraded выставляется, когда все источники котировок недоступны
// и курс взят из статического фоллбэка.
type Quote struct {
	Pair         string
	MarketRate   float64
	OurRate      float64
	OurRateExact float64
	FeePercent   float64
	Source       string
	Degraded     bool
}
