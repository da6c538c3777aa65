// Package corruption draws a corruption plan for a single recording and
// renders it as a wav-reverberate pipeline.
//
// A plan names the impulse response applied to the speech (if any) and an
// ordered list of additive noise events. Planner performs its random draws
// in a fixed order: room, speech impulse response, reverberation coin,
// isotropic noise, then point-source noises. Changing that order changes
// every plan produced from a given seed.
package corruption
