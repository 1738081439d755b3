//go:build darwin

package input

/*
#cgo darwin LDFLAGS: -framework CoreGraphics -framework ApplicationServices -framework CoreFoundation
#include <ApplicationServices/ApplicationServices.h>
#include <CoreFoundation/CoreFoundation.h>
#include <stdint.h>

static Boolean axCheckTrusted(void) {
        const void *keys[] = { kAXTrustedCheckOptionPrompt };
        const void *values[] = { kCFBooleanTrue };
        CFDictionaryRef options = CFDictionaryCreate(kCFAllocatorDefault, keys, values, 1,
                                                     &kCFTypeDictionaryKeyCallBacks,
                                                     &kCFTypeDictionaryValueCallBacks);
        Boolean trusted = AXIsProcessTrustedWithOptions(options);
        CFRelease(options);
        return trusted;
}

extern CGEventRef goHandleInput(CGEventTapProxy proxy, CGEventType type, CGEventRef event, void *userInfo);

static CFMachPortRef createListenTap(uintptr_t handle, CGEventMask mask) {
        return CGEventTapCreate(kCGSessionEventTap,
                                kCGHeadInsertEventTap,
                                kCGEventTapOptionListenOnly,
                                mask,
                                goHandleInput,
                                (void *)handle);
}

static CGEventMask cgEventMaskBit(CGEventType type) {
        return ((CGEventMask)1) << type;
}

static CFRunLoopSourceRef attachTap(CFMachPortRef tap, CFRunLoopRef loop) {
        CFRunLoopSourceRef source = CFMachPortCreateRunLoopSource(kCFAllocatorDefault, tap, 0);
        if (source != NULL) {
                CFRunLoopAddSource(loop, source, kCFRunLoopCommonModes);
                CGEventTapEnable(tap, true);
        }
        return source;
}

static void detachTap(CFMachPortRef tap, CFRunLoopRef loop, CFRunLoopSourceRef source) {
        CGEventTapEnable(tap, false);
        CFRunLoopRemoveSource(loop, source, kCFRunLoopCommonModes);
        CFMachPortInvalidate(tap);
        CFRelease(source);
        CFRelease(tap);
}

static void runLoopSlice(double seconds) {
        CFRunLoopRunInMode(kCFRunLoopDefaultMode, seconds, false);
}
*/
import "C"

import (
	"errors"
	"runtime"
	"runtime/cgo"
	"sync/atomic"
	"unsafe"
)

const runLoopSliceSeconds = 0.25

type darwinHook struct {
	kind    hookKind
	deliver func(rawEvent)
	tap     C.CFMachPortRef
	stopped atomic.Bool
	loop    C.CFRunLoopRef
}

type installResult struct {
	err error
}

func platformSupported() error {
	return nil
}

func installPlatformHook(kind hookKind, deliver func(rawEvent)) (hook, error) {
	if C.axCheckTrusted() == C.Boolean(0) {
		return nil, ErrAccessibilityPermission
	}

	h := &darwinHook{kind: kind, deliver: deliver}
	ready := make(chan installResult, 1)
	go h.run(ready)
	res := <-ready
	if res.err != nil {
		return nil, res.err
	}
	return h, nil
}

func (h *darwinHook) mask() C.CGEventMask {
	if h.kind == keyboardHook {
		return C.cgEventMaskBit(C.kCGEventKeyDown)
	}
	return C.cgEventMaskBit(C.kCGEventMouseMoved) |
		C.cgEventMaskBit(C.kCGEventLeftMouseDragged) |
		C.cgEventMaskBit(C.kCGEventRightMouseDragged)
}

// run owns the tap and its run loop on a locked OS thread until remove.
func (h *darwinHook) run(ready chan<- installResult) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	handle := cgo.NewHandle(h)
	defer handle.Delete()

	tap := C.createListenTap(C.uintptr_t(handle), h.mask())
	if tap == 0 {
		ready <- installResult{err: errors.New("failed to create CGEvent tap")}
		return
	}
	h.tap = tap
	h.loop = C.CFRunLoopGetCurrent()
	source := C.attachTap(tap, h.loop)
	if source == 0 {
		C.CFMachPortInvalidate(tap)
		C.CFRelease(C.CFTypeRef(tap))
		ready <- installResult{err: errors.New("failed to create run loop source")}
		return
	}
	ready <- installResult{}

	for !h.stopped.Load() {
		C.runLoopSlice(C.double(runLoopSliceSeconds))
	}
	C.detachTap(tap, h.loop, source)
}

// remove signals the run loop goroutine and returns without waiting for it.
func (h *darwinHook) remove() {
	if h.stopped.Swap(true) {
		return
	}
	C.CFRunLoopStop(h.loop)
}

func (h *darwinHook) handle(eventType C.CGEventType, event C.CGEventRef) {
	if h.stopped.Load() {
		return
	}
	switch eventType {
	case C.kCGEventTapDisabledByTimeout, C.kCGEventTapDisabledByUserInput:
		C.CGEventTapEnable(h.tap, true)
	case C.kCGEventKeyDown:
		h.deliver(rawEvent{keyDown: true, modifiers: modifiersFromFlags(C.CGEventGetFlags(event))})
	case C.kCGEventMouseMoved:
		h.deliver(rawEvent{pointer: PointerMoved})
	case C.kCGEventLeftMouseDragged:
		h.deliver(rawEvent{pointer: LeftDragged})
	case C.kCGEventRightMouseDragged:
		h.deliver(rawEvent{pointer: RightDragged})
	}
}

func modifiersFromFlags(flags C.CGEventFlags) Modifier {
	var mods Modifier
	if flags&C.kCGEventFlagMaskCommand != 0 {
		mods |= ModCommand
	}
	if flags&C.kCGEventFlagMaskControl != 0 {
		mods |= ModControl
	}
	if flags&C.kCGEventFlagMaskAlternate != 0 {
		mods |= ModOption
	}
	if flags&C.kCGEventFlagMaskHelp != 0 {
		mods |= ModHelp
	}
	if flags&C.kCGEventFlagMaskSecondaryFn != 0 {
		mods |= ModFunction
	}
	if flags&C.kCGEventFlagMaskShift != 0 {
		mods |= ModShift
	}
	if flags&C.kCGEventFlagMaskAlphaShift != 0 {
		mods |= ModCapsLock
	}
	return mods
}

//export goHandleInput
func goHandleInput(_ C.CGEventTapProxy, eventType C.CGEventType, event C.CGEventRef, userInfo unsafe.Pointer) C.CGEventRef {
	h, ok := cgo.Handle(uintptr(userInfo)).Value().(*darwinHook)
	if ok {
		h.handle(eventType, event)
	}
	return event
}
