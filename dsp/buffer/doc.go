// Package buffer provides multi-channel sample containers for block-based
// processing.
//
// View is a non-owning handle over host-owned channel slices. Effects
// transform the slices in place and must not keep the View after the call
// returns. Block owns its storage and hands out Views over it, which is the
// convenient form for offline rendering and tests.
package buffer
