// Package batch plans which input files are translated to which output
// files, and paces successive calls to the annotation service.
package batch
