// SPDX-License-Identifier: Unlicense OR MIT

//go:build windows

package windows

import (
	"fmt"
	"unsafe"

	syscall "golang.org/x/sys/windows"
)

type Rect struct {
	Left, Top, Right, Bottom int32
}

type Point struct {
	X, Y int32
}

type Msg struct {
	Hwnd     syscall.Handle
	Message  uint32
	WParam   uintptr
	LParam   uintptr
	Time     uint32
	Pt       Point
	LPrivate uint32
}

type WndClassEx struct {
	CbSize        uint32
	Style         uint32
	LpfnWndProc   uintptr
	CnClsExtra    int32
	CbWndExtra    int32
	HInstance     syscall.Handle
	HIcon         syscall.Handle
	HCursor       syscall.Handle
	HbrBackground syscall.Handle
	LpszMenuName  *uint16
	LpszClassName *uint16
	HIconSm       syscall.Handle
}

type WindowPlacement struct {
	length           uint32
	flags            uint32
	showCmd          uint32
	ptMinPosition    Point
	ptMaxPosition    Point
	rcNormalPosition Rect
	rcDevice         Rect
}

type MonitorInfo struct {
	cbSize   uint32
	Monitor  Rect
	WorkArea Rect
	Flags    uint32
}

type BitmapInfoHeader struct {
	Size          uint32
	Width         int32
	Height        int32
	Planes        uint16
	BitCount      uint16
	Compression   uint32
	SizeImage     uint32
	XPelsPerMeter int32
	YPelsPerMeter int32
	ClrUsed       uint32
	ClrImportant  uint32
}

type trackMouseEvent struct {
	cbSize      uint32
	dwFlags     uint32
	hwndTrack   syscall.Handle
	dwHoverTime uint32
}

type RawInputDevice struct {
	UsagePage uint16
	Usage     uint16
	Flags     uint32
	Target    syscall.Handle
}

type RawInputHeader struct {
	Type   uint32
	Size   uint32
	Device syscall.Handle
	WParam uintptr
}

// RawMouse is the RAWMOUSE structure. The button fields are a union
// in C.
type RawMouse struct {
	Flags            uint16
	_                uint16
	ButtonFlags      uint16
	ButtonData       uint16
	RawButtons       uint32
	LastX            int32
	LastY            int32
	ExtraInformation uint32
}

type RawInputMouse struct {
	Header RawInputHeader
	Mouse  RawMouse
}

const (
	_CS_HREDRAW = 0x0002
	_CS_VREDRAW = 0x0001
	_CS_OWNDC   = 0x0020

	_CW_USEDEFAULT = -2147483648

	_DIB_RGB_COLORS = 0
	_BI_RGB         = 0

	_GWL_STYLE = ^(uintptr(16) - 1) // -16

	_HTCLIENT = 1

	_IDC_ARROW = 32512

	_INFINITE = 0xFFFFFFFF

	_LOGPIXELSX = 88

	_MAPVK_VSC_TO_VK_EX = 3

	_MONITOR_DEFAULTTOPRIMARY = 1

	_MOUSE_MOVE_ABSOLUTE = 0x01

	_MWMO_INPUTAVAILABLE = 0x0004

	_PM_REMOVE = 0x0001

	_QS_ALLINPUT = 0x04FF

	_RID_INPUT     = 0x10000003
	_RIM_TYPEMOUSE = 0

	_SIZE_MINIMIZED = 1

	_SW_SHOWDEFAULT = 10

	_SWP_FRAMECHANGED  = 0x0020
	_SWP_NOACTIVATE    = 0x0010
	_SWP_NOMOVE        = 0x0002
	_SWP_NOOWNERZORDER = 0x0200
	_SWP_NOSIZE        = 0x0001
	_SWP_NOZORDER      = 0x0004

	_TME_LEAVE = 0x002

	_USER_DEFAULT_SCREEN_DPI = 96

	_WAIT_FAILED = 0xFFFFFFFF

	_WHEEL_DELTA = 120

	_WM_CLOSE         = 0x0010
	_WM_DPICHANGED    = 0x02E0
	_WM_INPUT         = 0x00FF
	_WM_KEYDOWN       = 0x0100
	_WM_KEYUP         = 0x0101
	_WM_KILLFOCUS     = 0x0008
	_WM_LBUTTONDOWN   = 0x0201
	_WM_LBUTTONUP     = 0x0202
	_WM_MBUTTONDOWN   = 0x0207
	_WM_MBUTTONUP     = 0x0208
	_WM_MOUSEHWHEEL   = 0x020E
	_WM_MOUSELEAVE    = 0x02A3
	_WM_MOUSEMOVE     = 0x0200
	_WM_MOUSEWHEEL    = 0x020A
	_WM_PAINT         = 0x000F
	_WM_RBUTTONDOWN   = 0x0204
	_WM_RBUTTONUP     = 0x0205
	_WM_SETCURSOR     = 0x0020
	_WM_SETFOCUS      = 0x0007
	_WM_SIZE          = 0x0005
	_WM_SYSKEYDOWN    = 0x0104
	_WM_SYSKEYUP      = 0x0105
	_WM_USER          = 0x0400
	_WM_XBUTTONDOWN   = 0x020B
	_WM_XBUTTONUP     = 0x020C
	_XBUTTON1         = 0x0001
	_XBUTTON2         = 0x0002
	_WS_CAPTION       = 0x00C00000
	_WS_CLIPCHILDREN  = 0x02000000
	_WS_CLIPSIBLINGS  = 0x04000000
	_WS_MAXIMIZEBOX   = 0x00010000
	_WS_MINIMIZEBOX   = 0x00020000
	_WS_OVERLAPPED    = 0x00000000
	_WS_POPUP         = 0x80000000
	_WS_SYSMENU       = 0x00080000
	_WS_THICKFRAME    = 0x00040000
	_WS_EX_APPWINDOW  = 0x00040000
	_WS_EX_WINDOWEDGE = 0x00000100

	_WS_OVERLAPPEDWINDOW = _WS_OVERLAPPED | _WS_CAPTION | _WS_SYSMENU | _WS_THICKFRAME |
		_WS_MINIMIZEBOX | _WS_MAXIMIZEBOX
)

// _DPI_AWARENESS_CONTEXT_PER_MONITOR_AWARE_V2 is the pseudo handle -4.
const _DPI_AWARENESS_CONTEXT_PER_MONITOR_AWARE_V2 = ^uintptr(3)

var (
	kernel32          = syscall.NewLazySystemDLL("kernel32.dll")
	_GetModuleHandleW = kernel32.NewProc("GetModuleHandleW")

	user32                         = syscall.NewLazySystemDLL("user32.dll")
	_AdjustWindowRectEx            = user32.NewProc("AdjustWindowRectEx")
	_ClientToScreen                = user32.NewProc("ClientToScreen")
	_ClipCursor                    = user32.NewProc("ClipCursor")
	_CreateWindowEx                = user32.NewProc("CreateWindowExW")
	_DefWindowProc                 = user32.NewProc("DefWindowProcW")
	_DestroyWindow                 = user32.NewProc("DestroyWindow")
	_DispatchMessage               = user32.NewProc("DispatchMessageW")
	_GetClientRect                 = user32.NewProc("GetClientRect")
	_GetCursorPos                  = user32.NewProc("GetCursorPos")
	_GetDC                         = user32.NewProc("GetDC")
	_GetDpiForWindow               = user32.NewProc("GetDpiForWindow")
	_GetKeyboardLayout             = user32.NewProc("GetKeyboardLayout")
	_GetKeyboardState              = user32.NewProc("GetKeyboardState")
	_GetKeyState                   = user32.NewProc("GetKeyState")
	_GetMonitorInfo                = user32.NewProc("GetMonitorInfoW")
	_GetRawInputData               = user32.NewProc("GetRawInputData")
	_GetWindowLong                 = user32.NewProc("GetWindowLongW")
	_GetWindowPlacement            = user32.NewProc("GetWindowPlacement")
	_LoadCursor                    = user32.NewProc("LoadCursorW")
	_MapVirtualKeyEx               = user32.NewProc("MapVirtualKeyExW")
	_MonitorFromWindow             = user32.NewProc("MonitorFromWindow")
	_MsgWaitForMultipleObjectsEx   = user32.NewProc("MsgWaitForMultipleObjectsEx")
	_PeekMessage                   = user32.NewProc("PeekMessageW")
	_PostThreadMessage             = user32.NewProc("PostThreadMessageW")
	_RegisterClassExW              = user32.NewProc("RegisterClassExW")
	_RegisterRawInputDevices       = user32.NewProc("RegisterRawInputDevices")
	_ReleaseCapture                = user32.NewProc("ReleaseCapture")
	_ReleaseDC                     = user32.NewProc("ReleaseDC")
	_SetCapture                    = user32.NewProc("SetCapture")
	_SetCursor                     = user32.NewProc("SetCursor")
	_SetFocus                      = user32.NewProc("SetFocus")
	_SetForegroundWindow           = user32.NewProc("SetForegroundWindow")
	_SetProcessDPIAware            = user32.NewProc("SetProcessDPIAware")
	_SetProcessDpiAwarenessContext = user32.NewProc("SetProcessDpiAwarenessContext")
	_SetWindowLong                 = user32.NewProc("SetWindowLongW")
	_SetWindowPlacement            = user32.NewProc("SetWindowPlacement")
	_SetWindowPos                  = user32.NewProc("SetWindowPos")
	_SetWindowText                 = user32.NewProc("SetWindowTextW")
	_ShowWindow                    = user32.NewProc("ShowWindow")
	_ToUnicodeEx                   = user32.NewProc("ToUnicodeEx")
	_TrackMouseEvent               = user32.NewProc("TrackMouseEvent")
	_UnregisterClass               = user32.NewProc("UnregisterClassW")
	_ValidateRect                  = user32.NewProc("ValidateRect")

	gdi32              = syscall.NewLazySystemDLL("gdi32")
	_GetDeviceCaps     = gdi32.NewProc("GetDeviceCaps")
	_SetDIBitsToDevice = gdi32.NewProc("SetDIBitsToDevice")
)

func getModuleHandle() (syscall.Handle, error) {
	h, _, err := _GetModuleHandleW.Call(uintptr(0))
	if h == 0 {
		return 0, fmt.Errorf("GetModuleHandleW failed: %v", err)
	}
	return syscall.Handle(h), nil
}

func adjustWindowRectEx(r *Rect, dwStyle uint32, bMenu int, dwExStyle uint32) {
	_AdjustWindowRectEx.Call(uintptr(unsafe.Pointer(r)), uintptr(dwStyle), uintptr(bMenu), uintptr(dwExStyle))
}

func clientToScreen(hwnd syscall.Handle, p *Point) {
	_ClientToScreen.Call(uintptr(hwnd), uintptr(unsafe.Pointer(p)))
}

// clipCursor confines the cursor to r, or releases it if r is nil.
func clipCursor(r *Rect) {
	_ClipCursor.Call(uintptr(unsafe.Pointer(r)))
}

func createWindowEx(dwExStyle uint32, lpClassName uint16, lpWindowName string, dwStyle uint32, x, y, w, h int32, hWndParent, hMenu, hInstance syscall.Handle, lpParam uintptr) (syscall.Handle, error) {
	wname := syscall.StringToUTF16Ptr(lpWindowName)
	hwnd, _, err := _CreateWindowEx.Call(
		uintptr(dwExStyle),
		uintptr(lpClassName),
		uintptr(unsafe.Pointer(wname)),
		uintptr(dwStyle),
		uintptr(x), uintptr(y),
		uintptr(w), uintptr(h),
		uintptr(hWndParent),
		uintptr(hMenu),
		uintptr(hInstance),
		uintptr(lpParam))
	if hwnd == 0 {
		return 0, fmt.Errorf("CreateWindowEx failed: %v", err)
	}
	return syscall.Handle(hwnd), nil
}

func defWindowProc(hwnd syscall.Handle, msg uint32, wparam, lparam uintptr) uintptr {
	r, _, _ := _DefWindowProc.Call(uintptr(hwnd), uintptr(msg), wparam, lparam)
	return r
}

func destroyWindow(hwnd syscall.Handle) {
	_DestroyWindow.Call(uintptr(hwnd))
}

func dispatchMessage(m *Msg) {
	_DispatchMessage.Call(uintptr(unsafe.Pointer(m)))
}

func getClientRect(hwnd syscall.Handle) Rect {
	var r Rect
	_GetClientRect.Call(uintptr(hwnd), uintptr(unsafe.Pointer(&r)))
	return r
}

func getCursorPos() Point {
	var p Point
	_GetCursorPos.Call(uintptr(unsafe.Pointer(&p)))
	return p
}

func getDC(hwnd syscall.Handle) (syscall.Handle, error) {
	hdc, _, err := _GetDC.Call(uintptr(hwnd))
	if hdc == 0 {
		return 0, fmt.Errorf("GetDC failed: %v", err)
	}
	return syscall.Handle(hdc), nil
}

func getDeviceCaps(hdc syscall.Handle, index int32) int {
	c, _, _ := _GetDeviceCaps.Call(uintptr(hdc), uintptr(index))
	return int(c)
}

// getDpiForWindow returns the DPI of the monitor of hwnd. Systems
// before Windows 10 report the DPI of the screen.
func getDpiForWindow(hwnd syscall.Handle, hdc syscall.Handle) int {
	if _GetDpiForWindow.Find() == nil {
		dpi, _, _ := _GetDpiForWindow.Call(uintptr(hwnd))
		if dpi != 0 {
			return int(dpi)
		}
	}
	return getDeviceCaps(hdc, _LOGPIXELSX)
}

func getKeyboardLayout() uintptr {
	h, _, _ := _GetKeyboardLayout.Call(0)
	return h
}

func getKeyboardState(state *[256]byte) {
	_GetKeyboardState.Call(uintptr(unsafe.Pointer(&state[0])))
}

func getKeyState(nVirtKey int32) int16 {
	c, _, _ := _GetKeyState.Call(uintptr(nVirtKey))
	return int16(c)
}

func getMonitorInfo(hwnd syscall.Handle) MonitorInfo {
	mon, _, _ := _MonitorFromWindow.Call(uintptr(hwnd), _MONITOR_DEFAULTTOPRIMARY)
	mi := MonitorInfo{cbSize: uint32(unsafe.Sizeof(MonitorInfo{}))}
	_GetMonitorInfo.Call(mon, uintptr(unsafe.Pointer(&mi)))
	return mi
}

// getRawMouse returns the mouse input of the WM_INPUT handle, if it is
// mouse input.
func getRawMouse(hRawInput uintptr) (RawInputMouse, bool) {
	var raw RawInputMouse
	size := uint32(unsafe.Sizeof(raw))
	r, _, _ := _GetRawInputData.Call(hRawInput, _RID_INPUT, uintptr(unsafe.Pointer(&raw)), uintptr(unsafe.Pointer(&size)), unsafe.Sizeof(RawInputHeader{}))
	if int32(r) <= 0 || raw.Header.Type != _RIM_TYPEMOUSE {
		return raw, false
	}
	return raw, true
}

func getWindowStyle(hwnd syscall.Handle) uint32 {
	s, _, _ := _GetWindowLong.Call(uintptr(hwnd), _GWL_STYLE)
	return uint32(s)
}

func setWindowStyle(hwnd syscall.Handle, style uint32) {
	_SetWindowLong.Call(uintptr(hwnd), _GWL_STYLE, uintptr(style))
}

func getWindowPlacement(hwnd syscall.Handle) *WindowPlacement {
	wp := &WindowPlacement{length: uint32(unsafe.Sizeof(WindowPlacement{}))}
	_GetWindowPlacement.Call(uintptr(hwnd), uintptr(unsafe.Pointer(wp)))
	return wp
}

func setWindowPlacement(hwnd syscall.Handle, wp *WindowPlacement) {
	_SetWindowPlacement.Call(uintptr(hwnd), uintptr(unsafe.Pointer(wp)))
}

func loadCursor(curID uint16) (syscall.Handle, error) {
	h, _, err := _LoadCursor.Call(0, uintptr(curID))
	if h == 0 {
		return 0, fmt.Errorf("LoadCursorW failed: %v", err)
	}
	return syscall.Handle(h), nil
}

func mapVirtualKey(code uint32, hkl uintptr) uint32 {
	r, _, _ := _MapVirtualKeyEx.Call(uintptr(code), _MAPVK_VSC_TO_VK_EX, hkl)
	return uint32(r)
}

func msgWaitForMultipleObjectsEx(nCount uint32, pHandles uintptr, millis, mask, flags uint32) (uint32, error) {
	r, _, err := _MsgWaitForMultipleObjectsEx.Call(uintptr(nCount), pHandles, uintptr(millis), uintptr(mask), uintptr(flags))
	res := uint32(r)
	if res == _WAIT_FAILED {
		return 0, fmt.Errorf("MsgWaitForMultipleObjectsEx failed: %v", err)
	}
	return res, nil
}

func peekMessage(m *Msg, hwnd syscall.Handle, wMsgFilterMin, wMsgFilterMax, wRemoveMsg uint32) bool {
	r, _, _ := _PeekMessage.Call(uintptr(unsafe.Pointer(m)), uintptr(hwnd), uintptr(wMsgFilterMin), uintptr(wMsgFilterMax), uintptr(wRemoveMsg))
	return r != 0
}

func postThreadMessage(threadID uint32, msg uint32, wParam, lParam uintptr) error {
	r, _, err := _PostThreadMessage.Call(uintptr(threadID), uintptr(msg), wParam, lParam)
	if r == 0 {
		return fmt.Errorf("PostThreadMessage failed: %v", err)
	}
	return nil
}

func registerClassEx(cls *WndClassEx) (uint16, error) {
	a, _, err := _RegisterClassExW.Call(uintptr(unsafe.Pointer(cls)))
	if a == 0 {
		return 0, fmt.Errorf("RegisterClassExW failed: %v", err)
	}
	return uint16(a), nil
}

func registerRawInputDevices(devs ...RawInputDevice) error {
	r, _, err := _RegisterRawInputDevices.Call(uintptr(unsafe.Pointer(&devs[0])), uintptr(len(devs)), unsafe.Sizeof(devs[0]))
	if r == 0 {
		return fmt.Errorf("RegisterRawInputDevices failed: %v", err)
	}
	return nil
}

func releaseCapture() bool {
	r, _, _ := _ReleaseCapture.Call()
	return r != 0
}

func releaseDC(hwnd, hdc syscall.Handle) {
	_ReleaseDC.Call(uintptr(hwnd), uintptr(hdc))
}

func setCapture(hwnd syscall.Handle) syscall.Handle {
	r, _, _ := _SetCapture.Call(uintptr(hwnd))
	return syscall.Handle(r)
}

func setCursor(h syscall.Handle) {
	_SetCursor.Call(uintptr(h))
}

func setDIBitsToDevice(hdc syscall.Handle, w, h int32, bits []byte, info *BitmapInfoHeader) {
	_SetDIBitsToDevice.Call(uintptr(hdc), 0, 0, uintptr(w), uintptr(h), 0, 0, 0, uintptr(h),
		uintptr(unsafe.Pointer(&bits[0])), uintptr(unsafe.Pointer(info)), _DIB_RGB_COLORS)
}

func setFocus(hwnd syscall.Handle) {
	_SetFocus.Call(uintptr(hwnd))
}

func setForegroundWindow(hwnd syscall.Handle) {
	_SetForegroundWindow.Call(uintptr(hwnd))
}

// setProcessDPIAware enables per monitor DPI awareness where
// available.
func setProcessDPIAware() {
	if _SetProcessDpiAwarenessContext.Find() == nil {
		r, _, _ := _SetProcessDpiAwarenessContext.Call(_DPI_AWARENESS_CONTEXT_PER_MONITOR_AWARE_V2)
		if r != 0 {
			return
		}
	}
	_SetProcessDPIAware.Call()
}

func setWindowPos(hwnd syscall.Handle, x, y, w, h int32, flags uint32) {
	_SetWindowPos.Call(uintptr(hwnd), 0, uintptr(x), uintptr(y), uintptr(w), uintptr(h), uintptr(flags))
}

func setWindowText(hwnd syscall.Handle, title string) {
	wname := syscall.StringToUTF16Ptr(title)
	_SetWindowText.Call(uintptr(hwnd), uintptr(unsafe.Pointer(wname)))
}

func showWindow(hwnd syscall.Handle, nCmdShow int32) {
	_ShowWindow.Call(uintptr(hwnd), uintptr(nCmdShow))
}

// toUnicodeEx translates the virtual key to text. It returns a
// negative count for dead keys.
func toUnicodeEx(vk, scancode uint32, state *[256]byte, buf []uint16, flags uint32, hkl uintptr) int32 {
	r, _, _ := _ToUnicodeEx.Call(uintptr(vk), uintptr(scancode), uintptr(unsafe.Pointer(&state[0])),
		uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)), uintptr(flags), hkl)
	return int32(r)
}

func trackMouseLeave(hwnd syscall.Handle) {
	tme := trackMouseEvent{
		cbSize:    uint32(unsafe.Sizeof(trackMouseEvent{})),
		dwFlags:   _TME_LEAVE,
		hwndTrack: hwnd,
	}
	_TrackMouseEvent.Call(uintptr(unsafe.Pointer(&tme)))
}

func unregisterClass(cls uint16, hInst syscall.Handle) {
	_UnregisterClass.Call(uintptr(cls), uintptr(hInst))
}

func validateRect(hwnd syscall.Handle) {
	_ValidateRect.Call(uintptr(hwnd), 0)
}
