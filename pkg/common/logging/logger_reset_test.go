/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package logging

import "sync"

// unsafeReset allows reinitialization of the logger provider from tests.
func unsafeReset() {
	loggerProviderInstance = nil
	loggerProviderOnce = sync.Once{}
}
