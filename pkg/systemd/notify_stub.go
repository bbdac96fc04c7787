//go:build !linux

package systemd

import "context"

func NotifyReady()    {}
func NotifyStopping() {}

func WatchdogLoop(ctx context.Context) {}
