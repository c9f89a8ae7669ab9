package markov

// chainBlob is the offline-trained trigram trie, JSON-encoded,
// raw-deflate compressed, base64 encoded.
const chainBlob = "" +
	"7d1LjxNHFAXg/+L1LKhqe5jhr0QsogQpkRCJEKwQ/z0DCowb2/2oh7vG9W0OaLAtND4693Xu7S+7" +
	"P9/9++mv3Zvhbvfp49/vdm++7P745/OHT7s3ITw83u1+//hx9+a3D5/fv78Dtw1H3/wrX3y33/7B" +
	"d985xJl/Hyr/B95+PdIiUtQnhNEfKTR9hvsSRMTD7sm4OTwRchysI1aCIvwMgjXIh4drRP7F8niP" +
	"j2BS4PY1Y/sPPo5J+Ropey6m4xQxQ814fRyqdXkQc6V8xlotnj0u9heHhxGfwvrULz69LKxURfUz" +
	"KJ9NhqItnYCTfcLwLGghPfmLKSOb43Bs6E/bzv99WMri/Jwwygk7ZFw87SE+SeKrK1U4Jn6guQkN" +
	"QmJMU3C+p42aYHNaj6g5l2AaDXbpbh187aYdm8bdU5UylAOrmRwKVLvLmUk2QY5yhuwqmJEGnMCh" +
	"vAhmDu9QkuA10KJhcACbrgXMxW68VH23t04lfJNH4Ru80I3oLYYqs4sGDyjc46BFcwYUMAsOUjtw" +
	"Mwmi/RNQnpChfHtG0tY77Gd/cL0q2PSZyG3biBS4QWNNHQJJILPMONV3ArSAkHQuHB9O88qQsU16" +
	"nonk0QB629nfaTvSqUScnHMzTtC1TN6oigHZcb5c+zGBwXt7fF2Ol33toNQhuoRGoToDpFS9Vbsy" +
	"o1shJng2Qxe/dvhRgMTVJzXnNkc1AelfRpcmpBUYlk5Ao4soDiiBRn0TqhoQGpZMagnaWeXzOBUw" +
	"lGBo4cCd0i2Kgrwxil+NGLrmn2LG8JcLAVRK6TI9MSQRrKJXWLY/lWJuQUVQrocdC3ReUFLJu7mV" +
	"GhtBms7FCmw0YwaNTZs9NQo0dedQHomBhZUxlBJITtm+qBjXN3POE7cYAyMKdqiGh+9+6zwmDXfB" +
	"k0XBTaSW/DRYlPaeWJSbhBE0xfVRqoiRCufLu8vDuXfsL0xvwgodRDv3CTNoOzyRMFP5dAy5bDaw" +
	"hp1vX6tPeod9axflOPjBtsMZnm6wkdtWGwe07pqYWNJzuckqHo2iM20dp+HYAuX4OZQgJ7UE7bla" +
	"x0L5iJpGJeu3QjMPhEydANGVARXvQLh+CG4tmhfogBvI6OP41YAthG+ij8O6AHJ2mEPe1S9VCWhx" +
	"557VECSH8LDgR3lVCLGUHbZTJ2MjaOdIjsdWgNACEecs2lpDYPNofhy+aWTnrZwXOXQZJaDamV1O" +
	"WRQeIDvQhvJVhxQPrZrq0HichTuHaZQNBfWRQxasIWCcvrsZUjo2ixyyygnUzB3O5D+xXmIJWkxK" +
	"bWCB1giZR+IgF+2yf2jyAZKPH4aigVQrG1zfnDBBSDVw71D3GY8r7g4L0zRv2yLEXgAo1BwMWi/g" +
	"ZobRx4R8jZBgHLrDtRLL2cEJtexVBYepe0uL6BeK5I08OF2XLfvt/1Oj7FF/p1c6/mxo3+fYytaK" +
	"oqtIIJm9sUrGaPgCGtnMP9kS1WUUsmvcJElJFV/hog7i7E7B+TcPRW4xBQkjWs6XNJMx+YSHBwki" +
	"eEEWHUNo2ndpgrLdzQbzaNDeJRHeMQy8hmM2bztFigmctQHtiFXeUp0TJuAK+qj4BZXLkqG+OCqc" +
	"QTuM184B7XWBci87HIyuu8wQWRasKy/TpbNPNitiWcBAQa+5cYjWIqZuy/ORRqJjr/3tmP7W/4k4" +
	"XLzMtLKk+EnHB2zsOXOMmSpY+om4rAtdB+etn/p44dEWKmvBe5Fcrrt9kzZwUdeAcupY7DQTNmLj" +
	"5gfr8vYLHHPqcnCiBAa/JHiL5yZZHkb3XkFKdzBcs/ZlPJTSLWLv4fRHceoDQkq7WisGHef60ZcO" +
	"cBZ6OhlLNimcygatfYLmmy+hfIrpQSoql6zjnI3u8Y14rUXYp7eas1VEPf5puHgc7uRt+1L5nT51" +
	"77CvWm0My+OgxXSl75LGTI3MTpEBphp985askiRkewGr2ickEbTdG4x5kxLSCK5qHwxJfUBLy6Ad" +
	"Ek+MmdXaXc9SQpFtu9yBnt6jhk8CCUPefU+FNmhn5cmlG9DUvZyVNodRPNcp6tzSwC3IorXtaS+N" +
	"a5BnIkyropf0ruV3YPOLhwoO0BSFySTYQgjJJHhB1ERI0CwhbTB1zcUS1u3MWTJDAxquXEeJtaKz" +
	"Gw793g/Z5/hphuTn0bvbACr1vkMpSkZlS8dw/8sZxGHVesswu7rqFCLIXDi9Xr3Md9g181prJ7p/" +
	"CNZfjIjPNxDJImjPsGPQAm5gKqO3A1JkMlTVyOUuXNlll7sAj752cPnA4WRjJi596YQsSeLkYG36" +
	"CXkVQM4JzaFs/kYoQVP7x/qBoJE5y3mhZPACq6RwqNqAYcMG+bV4nH5OKacNKOaSrZhOnq6TKmuM" +
	"S5YbBw/myeCmu5WCNVizzMcWC27Z8JV3AJGkAucVwe0trNQQx0cU7lK57MQTsYub8eHHhujcxkl+" +
	"M9BJWAVHxbHcymiIjbxdDS0lc2x3OQf+eZDhzBPnvxmxD9+bgt9ed5/cubbDhGuNlrIGxXwwyx79" +
	"ffY1MUcO9fiQsLkZiYkcNrZjWXCoBkxH2jCrkmH0KRmhWpSmiwkaaEkKvABjYYln2BJGzJtjVLhi" +
	"UwcfBeptq5dUJX1tOtilVcbXznS/QeQUPkGBGiEUZevpjE6127NHIQcOz62/Eh1AhlbkXD6nq9oB" +
	"JIrIt2JSfL/2rWFFfMZEsPVevOuG4AWcgdXoATk8jnkWMVM7UGqRqtahzQe8NL1bsQcaSmUFyutu" +
	"YZ8Zlg/l+HjMQlLoNtKaKWIsHZkV0qCdcny5sWYkolS0z/MzCly6cykshovDlCF59e4kaKohwOYb" +
	"8KepnCdG9KqGh6Wz3zPH09PNibw0oEBpUNZpM9qmo4gYuOhw13AXDlM3vVasnjAsgEZNDDaNQYX5" +
	"WqkCxslCREzYHthnL7xb3DMmbo72RnWg7QteNFLLO+8jym0GGNCAKx8Cy7I0HOvoXsu8SyMDHwNI" +
	"bsaEoqkcBQIFlkQcHQRNwVCAkIoJwmd0B9S55zfqsFGd0oA8Mt2AFhl9nppiON5t+zkySvRrRyo1" +
	"I0FT1p4T+w1Wdq2WuXpZxOrggEjP/ce4rBsZagZw/i9Q3jdrbgjKsig0/nCoC710KzBdOsHUFmBa" +
	"z2LlMHrx2JIZCvvMItYN5ZPDCV7K9sCWBrHZnM8QGjS1tldxYOPMTpdVi6kxKCODNQoX5ATthV38" +
	"BO24aC+khUgKXK0Dlrk2KKZ1NhXYwi9oPEdEYaAMB7jYiHeMJVzeqIQgYLmKFurLmegL9BeBW0+O" +
	"mYCbqlTQFbRD8LQHi9vGMW3xqwEbbTTjJ2g2W8RP0DJTrWSBl6qkFT/x7dev/wE="
