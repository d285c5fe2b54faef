// Package nrdyio contributes the neuronrobotics.dyio namespace: power,
// firmware revision, and device info RPCs, the three queries
// dispatch.Device.Connect issues during its post-introspection resync step.
package nrdyio

import (
	"fmt"

	"github.com/mdzio/go-bowler/codec"
	"github.com/mdzio/go-bowler/packet"
	"github.com/mdzio/go-bowler/registry"
)

// Namespace is the dotted name this contribution registers under.
const Namespace = "neuronrobotics.dyio"

// Contribution returns the neuronrobotics.dyio namespace's RPC table.
func Contribution() registry.Contribution {
	pwr := registry.NewRpcEntry(pwrGetBinding())
	pwr.Promote(pwrCriticalBinding())
	return registry.Contribution{
		Namespace: Namespace,
		RPCs: map[string]*registry.RpcEntry{
			"_pwr":  pwr,
			"_rev":  registry.NewRpcEntry(revBinding()),
			"_info": registry.NewRpcEntry(infoBinding()),
		},
	}
}

// pwrGetBinding reads whether the device is currently powered.
func pwrGetBinding() registry.MethodBinding {
	return registry.MethodBinding{
		Send: packet.MethodGet,
		Recv: packet.DefaultRecvMethod(packet.MethodGet),
		Build: func(body *codec.PacketAssembler, args []codec.Value) error {
			return nil
		},
		Parse: func(body *codec.ByteRange) (registry.Result, error) {
			powered := body.ToBool()
			if err := body.Err(); err != nil {
				return nil, err
			}
			return registry.Result{"powered": codec.BoolValue(powered)}, nil
		},
	}
}

// pwrCriticalBinding forces the device's power state: args (critical
// Bool). This is the method-byte/body the protocol's worked example walks
// through (0x30 critical, 0x01 true).
func pwrCriticalBinding() registry.MethodBinding {
	return registry.MethodBinding{
		Send: packet.MethodCritical,
		Recv: packet.DefaultRecvMethod(packet.MethodCritical),
		Build: func(body *codec.PacketAssembler, args []codec.Value) error {
			if len(args) != 1 {
				return fmt.Errorf("nrdyio: _pwr(critical) expects 1 argument (critical), got %d", len(args))
			}
			_, err := body.WriteValue(0, codec.TypeBool, args[0])
			return err
		},
		Parse: func(body *codec.ByteRange) (registry.Result, error) {
			return registry.Result{}, nil
		},
	}
}

// revBinding reads the firmware revision string.
func revBinding() registry.MethodBinding {
	return registry.MethodBinding{
		Send: packet.MethodGet,
		Recv: packet.DefaultRecvMethod(packet.MethodGet),
		Build: func(body *codec.PacketAssembler, args []codec.Value) error {
			return nil
		},
		Parse: func(body *codec.ByteRange) (registry.Result, error) {
			rev := body.ToNull(false).ToRawString(nil)
			if err := body.Err(); err != nil {
				return nil, err
			}
			return registry.Result{"revision": codec.NullTerminatedStringValue(rev)}, nil
		},
	}
}

// infoBinding reads a free-form device info string.
func infoBinding() registry.MethodBinding {
	return registry.MethodBinding{
		Send: packet.MethodGet,
		Recv: packet.DefaultRecvMethod(packet.MethodGet),
		Build: func(body *codec.PacketAssembler, args []codec.Value) error {
			return nil
		},
		Parse: func(body *codec.ByteRange) (registry.Result, error) {
			info := body.ToNull(false).ToRawString(nil)
			if err := body.Err(); err != nil {
				return nil, err
			}
			return registry.Result{"info": codec.NullTerminatedStringValue(info)}, nil
		},
	}
}
