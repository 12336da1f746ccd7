package lsphost

import "github.com/lsphost/lsphost/internal/common"

// SetMaxFrameSize sets the largest message payload accepted from the peer.
// Call it before serving.
func SetMaxFrameSize(n int) error {
	return common.SetMaxFrameSize(n)
}

// SetBuffSize sets the read/write buffer sizes of stream connections.
// Call it before serving.
func SetBuffSize(r, w int) error {
	return common.SetBuffSize(r, w)
}
