package innertube

const (
	userAgentWeb     = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36,gzip(gfe)"
	userAgentTizen   = "Mozilla/5.0 (SMART-TV; LINUX; Tizen 6.5) AppleWebKit/537.36 (KHTML, like Gecko) 85.0.4183.93/6.5 TV Safari/537.36"
	userAgentPS4     = "Mozilla/5.0 (PlayStation; PlayStation 4/12.00) AppleWebKit/605.1.15 (KHTML, like Gecko)"
	iosClientVersion = "20.10.4"
	vrClientVersion  = "1.61.48"
)

var (
	// AndroidVR14332 is the primary persona: the Quest 3 VR app on an older
	// release that still serves unthrottled adaptive formats without login.
	AndroidVR14332 = Persona{
		ID:                "ANDROID_VR_1_43_32",
		Name:              "ANDROID_VR",
		Version:           "1.43.32",
		ContextNameID:     28,
		UserAgent:         "com.google.android.apps.youtube.vr.oculus/1.43.32 (Linux; U; Android 12; en_US; Quest 3; Build/SQ3A.220605.009.A1; Cronet/107.0.5284.2)",
		OSName:            "Android",
		OSVersion:         "12",
		DeviceMake:        "Oculus",
		DeviceModel:       "Quest 3",
		AndroidSDKVersion: "32",
	}

	AndroidVR16148 = Persona{
		ID:                "ANDROID_VR_1_61_48",
		Name:              "ANDROID_VR",
		Version:           vrClientVersion,
		ContextNameID:     28,
		UserAgent:         "com.google.android.apps.youtube.vr.oculus/1.61.48 (Linux; U; Android 12; en_US; Quest 3; Build/SQ3A.220605.009.A1; Cronet/132.0.6808.3)",
		OSName:            "Android",
		OSVersion:         "12",
		DeviceMake:        "Oculus",
		DeviceModel:       "Quest 3",
		AndroidSDKVersion: "32",
		LoginSupported:    true,
	}

	AndroidCreator = Persona{
		ID:                    "ANDROID_CREATOR",
		Name:                  "ANDROID_CREATOR",
		Version:               "23.47.101",
		ContextNameID:         14,
		UserAgent:             "com.google.android.apps.youtube.creator/23.47.101 (Linux; U; Android 15; en_US; Pixel 9 Pro Fold; Build/AP3A.241005.015.A2; Cronet/132.0.6779.0)",
		OSName:                "Android",
		OSVersion:             "15",
		DeviceMake:            "Google",
		DeviceModel:           "Pixel 9 Pro Fold",
		AndroidSDKVersion:     "35",
		LoginSupported:        true,
		UseSignatureTimestamp: true,
	}

	// Mobile is the regular YouTube Android app.
	Mobile = Persona{
		ID:                    "MOBILE",
		Name:                  "ANDROID",
		Version:               "20.10.38",
		ContextNameID:         3,
		UserAgent:             "com.google.android.youtube/20.10.38 (Linux; U; Android 11) gzip",
		OSName:                "Android",
		OSVersion:             "11",
		DeviceMake:            "Google",
		DeviceModel:           "Pixel 5",
		AndroidSDKVersion:     "30",
		LoginSupported:        true,
		UseSignatureTimestamp: true,
	}

	IPadOS = Persona{
		ID:                    "IPADOS",
		Name:                  "IOS",
		Version:               iosClientVersion,
		ContextNameID:         5,
		UserAgent:             "com.google.ios.youtube/20.10.4 (iPad7,6; U; CPU iPadOS 17_7_10 like Mac OS X; en-US)",
		OSName:                "iPadOS",
		OSVersion:             "17.7.10.21H450",
		DeviceMake:            "Apple",
		DeviceModel:           "iPad7,6",
		LoginSupported:        true,
		UseSignatureTimestamp: true,
	}

	AndroidVRNoAuth = Persona{
		ID:                "ANDROID_VR_NO_AUTH",
		Name:              "ANDROID_VR",
		Version:           vrClientVersion,
		ContextNameID:     28,
		UserAgent:         AndroidVR16148.UserAgent,
		OSName:            "Android",
		OSVersion:         "12",
		DeviceMake:        "Oculus",
		DeviceModel:       "Quest 3",
		AndroidSDKVersion: "32",
	}

	TVHTML5 = Persona{
		ID:                    "TVHTML5",
		Name:                  "TVHTML5",
		Version:               "7.20250312.16.00",
		ContextNameID:         7,
		UserAgent:             userAgentTizen,
		LoginSupported:        true,
		LoginRequired:         true,
		UseSignatureTimestamp: true,
	}

	TVHTML5SimplyEmbedded = Persona{
		ID:                    "TVHTML5_SIMPLY_EMBEDDED_PLAYER",
		Name:                  "TVHTML5_SIMPLY_EMBEDDED_PLAYER",
		Version:               "2.0",
		ContextNameID:         85,
		UserAgent:             userAgentPS4,
		LoginSupported:        true,
		LoginRequired:         true,
		UseSignatureTimestamp: true,
		Embedded:              true,
	}

	IOS = Persona{
		ID:                    "IOS",
		Name:                  "IOS",
		Version:               iosClientVersion,
		ContextNameID:         5,
		UserAgent:             "com.google.ios.youtube/20.10.4 (iPhone16,2; U; CPU iOS 18_3_2 like Mac OS X;)",
		OSName:                "iOS",
		OSVersion:             "18.3.2.22D82",
		DeviceMake:            "Apple",
		DeviceModel:           "iPhone16,2",
		LoginSupported:        true,
		UseSignatureTimestamp: true,
	}

	Web = Persona{
		ID:                    "WEB",
		Name:                  "WEB",
		Version:               "2.20250312.04.00",
		ContextNameID:         1,
		UserAgent:             userAgentWeb,
		UseSignatureTimestamp: true,
	}

	WebCreator = Persona{
		ID:                    "WEB_CREATOR",
		Name:                  "WEB_CREATOR",
		Version:               "1.20250312.03.01",
		ContextNameID:         62,
		UserAgent:             userAgentWeb,
		LoginSupported:        true,
		LoginRequired:         true,
		UseSignatureTimestamp: true,
	}

	// WebRemix is the YouTube Music web client.
	WebRemix = Persona{
		ID:                    "WEB_REMIX",
		Name:                  "WEB_REMIX",
		Version:               "1.20250310.01.00",
		ContextNameID:         67,
		UserAgent:             userAgentWeb,
		LoginSupported:        true,
		UseSignatureTimestamp: true,
	}
)
