// Package config loads the optional HCL configuration file of a benchmark run.
//
// A file may set any command line option. Expressions are evaluated with the
// `env` object, holding the process environment overlaid with an optional
// dotenv file, and a few string and number functions:
//
//	samples  = env.JSBM_SAMPLES
//	runtimes = ["node", lower(env.EXTRA_RUNTIME)]
//
// Attributes left out of the file stay nil so that callers can tell them from
// explicit values.
package config
