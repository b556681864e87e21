package component

// AWSSDKLibraries lists the AWS SDK libraries the Ambit plugin links,
// in the order the plugin declares them.
var AWSSDKLibraries = []string{
	"aws-c-auth",
	"aws-c-cal",
	"aws-c-common",
	"aws-c-compression",
	"aws-c-event-stream",
	"aws-c-http",
	"aws-c-io",
	"aws-c-mqtt",
	"aws-c-s3",
	"aws-checksums",
	"aws-cpp-sdk-core",
	"aws-crt-cpp",
	"aws-cpp-sdk-s3",
	"aws-cpp-sdk-firehose",
	"aws-cpp-sdk-kinesis",
	"aws-cpp-sdk-sts",
	"aws-cpp-sdk-cognito-identity",
	"aws-cpp-sdk-identity-management",
}

// AWSSDK returns the registry for the AWSSDK third-party module
func AWSSDK() *Registry {
	r, err := New(AWSSDKLibraries...)
	if err != nil {
		panic("component: invalid AWSSDK library list: " + err.Error())
	}
	return r
}
