package bugstats

import (
	"encoding/json"
	"fmt"
)

// Ratio is a percentage formatted to two decimals, or zero when undefined
type Ratio string

// ZeroRatio is the ratio of anything to zero. It encodes as the JSON number 0.
const ZeroRatio Ratio = ""

// NewRatio computes num/den as a percentage
func NewRatio(num, den int) Ratio {
	if den == 0 {
		return ZeroRatio
	}
	return Ratio(fmt.Sprintf("%.2f%%", float64(num)/float64(den)*100))
}

func (r Ratio) String() string {
	if r == ZeroRatio {
		return "0"
	}
	return string(r)
}

// MarshalJSON implements json.Marshaler
func (r Ratio) MarshalJSON() ([]byte, error) {
	if r == ZeroRatio {
		return []byte("0"), nil
	}
	return json.Marshal(string(r))
}

// UnmarshalJSON implements json.Unmarshaler
func (r *Ratio) UnmarshalJSON(data []byte) error {
	if string(data) == "0" {
		*r = ZeroRatio
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("invalid ratio %s: %w", data, err)
	}
	*r = Ratio(s)
	return nil
}
