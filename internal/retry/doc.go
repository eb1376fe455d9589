// Package retry provides backoff policies for transient transport failures.
package retry
