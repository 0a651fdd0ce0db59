package arima

import (
	"encoding/json"
	"fmt"

	"github.com/yourusername/sales-forecast/internal/models"
)

// State is the serialisable form of a fitted Model.
type State struct {
	Order     models.Order `json:"order"`
	AR        []float64    `json:"ar"`
	MA        []float64    `json:"ma"`
	Sigma2    float64      `json:"sigma2"`
	Endog     []float64    `json:"endog"`
	Residuals []float64    `json:"residuals"`
}

// MarshalState encodes everything Forecast needs.
func (m *Model) MarshalState() (json.RawMessage, error) {
	return json.Marshal(State{
		Order:     m.order,
		AR:        m.ar,
		MA:        m.ma,
		Sigma2:    m.sigma2,
		Endog:     m.endog,
		Residuals: m.residuals,
	})
}

// Restore rebuilds a fitted model from MarshalState output. The differenced
// series is recomputed from the stored input; coefficients are taken as is.
func Restore(data json.RawMessage) (*Model, error) {
	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("decode ARIMA state: %w", err)
	}
	if err := st.Order.Validate(); err != nil {
		return nil, err
	}
	if len(st.AR) != st.Order.P || len(st.MA) != st.Order.Q {
		return nil, fmt.Errorf("ARIMA state coefficients do not match order %s", st.Order)
	}

	m := &Model{
		order:     st.Order,
		ar:        st.AR,
		ma:        st.MA,
		sigma2:    st.Sigma2,
		endog:     st.Endog,
		residuals: st.Residuals,
	}
	if err := m.integrateLevels(); err != nil {
		return nil, err
	}
	if len(m.residuals) != len(m.z) {
		return nil, fmt.Errorf("ARIMA state has %d residuals for %d observations", len(m.residuals), len(m.z))
	}
	return m, nil
}
