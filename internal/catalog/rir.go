package catalog

// ImpulseResponse is one measured or simulated room impulse response.
type ImpulseResponse struct {
	ID                 string
	RoomID             string
	ReceiverPositionID string
	SourcePositionID   string
	// RT60 and DRR are informational only.
	RT60 *float64
	DRR  *float64
	// RawProbability is the weight estimate given in the catalog, if any.
	RawProbability *float64
	// Probability is the smoothed weight; all impulse responses sum to one.
	Probability float64
	Location    string
}

// Weight returns the smoothed selection weight.
func (r *ImpulseResponse) Weight() float64 { return r.Probability }

// RawWeight returns the catalog weight estimate when one was provided.
func (r *ImpulseResponse) RawWeight() (float64, bool) {
	if r.RawProbability == nil {
		return 0, false
	}
	return *r.RawProbability, true
}

// SetWeight stores the smoothed selection weight.
func (r *ImpulseResponse) SetWeight(w float64) { r.Probability = w }
