//go:build darwin

package foreground

/*
#cgo darwin LDFLAGS: -framework CoreGraphics -framework CoreFoundation
#include <CoreGraphics/CoreGraphics.h>
#include <CoreFoundation/CoreFoundation.h>

// copyFrontWindowOwner returns the owner name of the first on-screen window
// in layer 0, front to back, or NULL.
static CFStringRef copyFrontWindowOwner(void) {
        CFArrayRef windows = CGWindowListCopyWindowInfo(kCGWindowListOptionOnScreenOnly | kCGWindowListOptionIncludingWindow, kCGNullWindowID);
        if (windows == NULL) {
                return NULL;
        }
        CFStringRef owner = NULL;
        CFIndex count = CFArrayGetCount(windows);
        for (CFIndex i = 0; i < count; i++) {
                CFDictionaryRef info = (CFDictionaryRef)CFArrayGetValueAtIndex(windows, i);
                CFBooleanRef onScreen = (CFBooleanRef)CFDictionaryGetValue(info, kCGWindowIsOnscreen);
                if (onScreen == NULL || !CFBooleanGetValue(onScreen)) {
                        continue;
                }
                CFNumberRef layerRef = (CFNumberRef)CFDictionaryGetValue(info, kCGWindowLayer);
                int layer = -1;
                if (layerRef == NULL || !CFNumberGetValue(layerRef, kCFNumberIntType, &layer) || layer != 0) {
                        continue;
                }
                CFStringRef name = (CFStringRef)CFDictionaryGetValue(info, kCGWindowOwnerName);
                if (name == NULL) {
                        continue;
                }
                owner = (CFStringRef)CFRetain(name);
                break;
        }
        CFRelease(windows);
        return owner;
}
*/
import "C"

import "unsafe"

type systemProvider struct{}

func (systemProvider) ForegroundApp() (string, bool) {
	name := cfStringToGo(C.copyFrontWindowOwner())
	if name == "" {
		return "", false
	}
	return name, true
}

func cfStringToGo(str C.CFStringRef) string {
	if str == 0 {
		return ""
	}
	defer C.CFRelease(C.CFTypeRef(str))
	length := C.CFStringGetLength(str)
	if length == 0 {
		return ""
	}
	bufSize := C.CFIndex(1 + 4*length)
	buf := make([]byte, int(bufSize))
	if C.CFStringGetCString(str, (*C.char)(unsafe.Pointer(&buf[0])), bufSize, C.kCFStringEncodingUTF8) == C.Boolean(0) {
		return ""
	}
	return C.GoString((*C.char)(unsafe.Pointer(&buf[0])))
}
