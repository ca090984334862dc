package sync

import "github.com/Sologa/AUTOSR-SDSE-sub001/pkg/safe"

// Go same to safe.GO.
func Go(fn func(), errfns ...func(error)) {
	safe.Go(fn, errfns...)
}
