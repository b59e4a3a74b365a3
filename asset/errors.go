// SPDX-License-Identifier: EPL-2.0

package asset

import "errors"

// ErrAssetMissing is returned by Open when the asset file does not exist.
var ErrAssetMissing = errors.New("asset file missing")
