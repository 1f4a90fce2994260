package model

// SensorName identifies a measurement the Arduino can take.
type SensorName string

// Known sensors.
const (
	Height      SensorName = "height"
	Temperature SensorName = "temperature"
	Pulse       SensorName = "pulse"
	BP          SensorName = "bp"
	Weight      SensorName = "weight"
)

// Sensors lists every known sensor in a stable order.
var Sensors = []SensorName{Height, Temperature, Pulse, BP, Weight}

var dummyValues = map[SensorName]string{
	Height:      "172",
	Temperature: "36.5",
	Pulse:       "72",
	BP:          "120/80",
	Weight:      "63.4",
}

// ParseSensorName reports whether s names a known sensor.
func ParseSensorName(s string) (SensorName, bool) {
	name := SensorName(s)
	_, ok := dummyValues[name]
	return name, ok
}

// DummyValue is the placeholder answered instantly for a sensor.
func (n SensorName) DummyValue() string {
	return dummyValues[n]
}

func (n SensorName) String() string { return string(n) }
