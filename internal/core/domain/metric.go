package domain

type ScaledMetric struct {
	Name  string
	Value float64
}

// InfoRecord is exported as the label set of the info gauge.
type InfoRecord struct {
	Manufacturer string
	Model        string
	DeviceType   string
	Version      string
	SerialNumber string
	Status       string
}

// Labels returns the info gauge labels keyed by label name.
func (r InfoRecord) Labels() map[string]string {
	return map[string]string{
		LabelManufacturer: r.Manufacturer,
		LabelModel:        r.Model,
		LabelDeviceType:   r.DeviceType,
		LabelVersion:      r.Version,
		LabelSerialNumber: r.SerialNumber,
		LabelStatus:       r.Status,
	}
}

const (
	LabelManufacturer = "c_manufacturer"
	LabelModel        = "c_model"
	LabelDeviceType   = "c_sunspec_did"
	LabelVersion      = "c_version"
	LabelSerialNumber = "c_serialnumber"
	LabelStatus       = "status"
)

// InfoLabels lists the info gauge labels in declaration order.
var InfoLabels = []string{LabelManufacturer, LabelModel, LabelDeviceType, LabelVersion, LabelSerialNumber, LabelStatus}
