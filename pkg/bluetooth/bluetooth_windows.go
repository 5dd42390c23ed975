package bluetooth

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	modbthprops = windows.NewLazySystemDLL("bthprops.cpl")

	procBluetoothFindFirstRadio  = modbthprops.NewProc("BluetoothFindFirstRadio")
	procBluetoothFindRadioClose  = modbthprops.NewProc("BluetoothFindRadioClose")
	procBluetoothGetRadioInfo    = modbthprops.NewProc("BluetoothGetRadioInfo")
	procBluetoothFindFirstDevice = modbthprops.NewProc("BluetoothFindFirstDevice")
	procBluetoothFindNextDevice  = modbthprops.NewProc("BluetoothFindNextDevice")
	procBluetoothFindDeviceClose = modbthprops.NewProc("BluetoothFindDeviceClose")
)

const _BLUETOOTH_MAX_NAME_SIZE = 248

type _BLUETOOTH_FIND_RADIO_PARAMS struct {
	Size uint32
}

type _BLUETOOTH_RADIO_INFO struct {
	Size          uint32
	Address       uint64
	Name          [_BLUETOOTH_MAX_NAME_SIZE]uint16
	ClassOfDevice uint32
	LmpSubversion uint16
	Manufacturer  uint16
}

type _BLUETOOTH_DEVICE_SEARCH_PARAMS struct {
	Size                uint32
	ReturnAuthenticated int32
	ReturnRemembered    int32
	ReturnUnknown       int32
	ReturnConnected     int32
	IssueInquiry        int32
	TimeoutMultiplier   uint8
	Radio               windows.Handle
}

type _BLUETOOTH_DEVICE_INFO struct {
	Size          uint32
	Address       uint64
	ClassOfDevice uint32
	Connected     int32
	Remembered    int32
	Authenticated int32
	LastSeen      windows.Systemtime
	LastUsed      windows.Systemtime
	Name          [_BLUETOOTH_MAX_NAME_SIZE]uint16
}

// firstRadio returns the first radio whose info can be read. A machine
// without a usable radio returns a zero handle and no error.
func firstRadio() (windows.Handle, error) {
	if err := procBluetoothFindFirstRadio.Find(); err != nil {
		return 0, err
	}

	params := _BLUETOOTH_FIND_RADIO_PARAMS{Size: uint32(unsafe.Sizeof(_BLUETOOTH_FIND_RADIO_PARAMS{}))}
	var radio windows.Handle
	find, _, _ := procBluetoothFindFirstRadio.Call(uintptr(unsafe.Pointer(&params)), uintptr(unsafe.Pointer(&radio)))
	if find == 0 {
		return 0, nil
	}
	defer procBluetoothFindRadioClose.Call(find)

	info := _BLUETOOTH_RADIO_INFO{Size: uint32(unsafe.Sizeof(_BLUETOOTH_RADIO_INFO{}))}
	if r, _, _ := procBluetoothGetRadioInfo.Call(uintptr(radio), uintptr(unsafe.Pointer(&info))); r != 0 {
		windows.CloseHandle(radio)
		return 0, nil
	}
	return radio, nil
}

// Devices lists the devices visible to the first radio: authenticated,
// connected, remembered and any found by a fresh inquiry.
func Devices(timeoutMultiplier uint8) ([]Device, error) {
	radio, err := firstRadio()
	if err != nil || radio == 0 {
		return nil, err
	}
	defer windows.CloseHandle(radio)

	params := _BLUETOOTH_DEVICE_SEARCH_PARAMS{
		Size:                uint32(unsafe.Sizeof(_BLUETOOTH_DEVICE_SEARCH_PARAMS{})),
		ReturnAuthenticated: 1,
		ReturnRemembered:    1,
		ReturnUnknown:       1,
		ReturnConnected:     1,
		IssueInquiry:        1,
		TimeoutMultiplier:   timeoutMultiplier,
		Radio:               radio,
	}
	info := _BLUETOOTH_DEVICE_INFO{Size: uint32(unsafe.Sizeof(_BLUETOOTH_DEVICE_INFO{}))}

	find, _, _ := procBluetoothFindFirstDevice.Call(uintptr(unsafe.Pointer(&params)), uintptr(unsafe.Pointer(&info)))
	if find == 0 {
		return nil, nil
	}
	defer procBluetoothFindDeviceClose.Call(find)

	var out []Device
	for {
		out = append(out, Device{
			Name:          windows.UTF16ToString(info.Name[:]),
			Address:       info.Address,
			Class:         info.ClassOfDevice,
			Connected:     info.Connected != 0,
			Remembered:    info.Remembered != 0,
			Authenticated: info.Authenticated != 0,
		})
		if r, _, _ := procBluetoothFindNextDevice.Call(find, uintptr(unsafe.Pointer(&info))); r == 0 {
			break
		}
	}
	return out, nil
}
