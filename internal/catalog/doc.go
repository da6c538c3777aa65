// Package catalog loads the impulse-response and noise lists that drive
// corruption planning and groups impulse responses into rooms.
//
// Catalog files carry one entry per line written as command-line style
// flags followed by a single location token, for example:
//
//	--rir-id 00001 --room-id 001 --rt60 0.58 --drr -4.885 data/impulses/Room001-00001.wav
//	--noise-id 001 --noise-type isotropic --rir-id 00001 data/noises/iso-001.wav
//
// Lines are parsed with pflag so quoting and flag spelling follow the same
// rules as the reverbkit command line. Weights are smoothed on load; every
// slice returned here is ready for sampling.Pick.
package catalog
