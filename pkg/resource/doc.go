// Package resource provides a small typed client over controller-runtime for
// the object kinds a Kdc owns.
//
// Every kind shares the same shape: look an object up by key, create or
// replace it, delete it. Client[T] implements that once; a Kind[T] supplies
// the per-kind constructor and the rule for merging desired state into the
// live object. "Not found" is reported as a value (ok == false, deleted ==
// false), never as an error; genuine API failures are returned as
// *PlatformOperationError.
package resource
