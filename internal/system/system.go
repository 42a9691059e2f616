package system

import (
	"os"
	"syscall"

	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
	"github.com/sirupsen/logrus"
)

// InitResourceLimits raises the open file limit so that concurrent page
// writers do not run out of descriptors.
func InitResourceLimits(log logrus.FieldLogger) {
	var rLimit syscall.Rlimit
	err := syscall.Getrlimit(syscall.RLIMIT_NOFILE, &rLimit)
	if err != nil {
		log.WithError(err).Warn("cannot read open file limit")
		return
	}

	if rLimit.Cur >= 2048 {
		return
	}
	rLimit.Cur = 2048
	if rLimit.Cur > rLimit.Max {
		rLimit.Cur = rLimit.Max
	}

	err = syscall.Setrlimit(syscall.RLIMIT_NOFILE, &rLimit)
	if err != nil {
		log.WithError(err).Warn("cannot raise open file limit")
	} else {
		log.WithField("limit", rLimit.Cur).Debug("open file limit raised")
	}
}

// Usage is a snapshot of memory consumption.
type Usage struct {
	ProcessRSS      uint64
	HostTotal       uint64
	HostUsedPercent float64
}

// CurrentUsage samples the memory of this process and of the host.
func CurrentUsage() (Usage, error) {
	var u Usage

	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return u, err
	}
	mi, err := p.MemoryInfo()
	if err != nil {
		return u, err
	}
	u.ProcessRSS = mi.RSS

	vm, err := mem.VirtualMemory()
	if err != nil {
		return u, err
	}
	u.HostTotal = vm.Total
	u.HostUsedPercent = vm.UsedPercent

	return u, nil
}
