package report_test

// Golden reports for the text renderer.

const externalBeta1Arran822Report = `0x100000000600010000000000000001800
    124  120  116  112  108  104  100   96   92   88   84   80   76   72   68   64   60   56   52   48   44   40   36   32   28   24   20   16   12    8    4    0
==================================================================================================================================================================
 1    0    0    0    0    0    0    0    0    6    0    0    0    1    0    0    0    0    0    0    0    0    0    0    0    0    0    0    0    1    8    0    0
 1 0000 0000 0000 0000 0000 0000 0000 0000 0110 0000 0000 0000 0001 0000 0000 0000 0000 0000 0000 0000 0000 0000 0000 0000 0000 0000 0000 0000 0001 1000 0000 0000
 | Tag 0x1
   |--------------------|  Permissions 0x0
                         |-----------------|  ObjectType 0
                                            | IE 0x1
                                             |---------------|  Limit 0x2000
                                                               |-----------------|  Base 0x1000
                                                                                   |-------|  Flags 0x0
                                                                                   |-----------------------------------------------------------------------------|  Value 0x1800
                                                                                             |-------------------------------------------------------------------|  Bounds[55:0] 0x1800
Base     0x0000000000001000
Exponent 0x0000000000000000
Limit    0x0000000000002000
RepB     0xffffffffffffe000
RepT     0x000000000000e000
`

const loadStoreAlpha1Report = `0xc0000000000000000000000000000000
    124  120  116  112  108  104  100   96   92   88   84   80   76   72   68   64   60   56   52   48   44   40   36   32   28   24   20   16   12    8    4    0
==================================================================================================================================================================
 0    c    0    0    0    0    0    0    0    0    0    0    0    0    0    0    0    0    0    0    0    0    0    0    0    0    0    0    0    0    0    0    0
 0 1100 0000 0000 0000 0000 0000 0000 0000 0000 0000 0000 0000 0000 0000 0000 0000 0000 0000 0000 0000 0000 0000 0000 0000 0000 0000 0000 0000 0000 0000 0000 0000
 | Tag 0x0
   |--------------------|  Permissions Load, Store
                         |-----------------|  ObjectType 0
                                            |------------------------------------|  Bounds[86:56] 0x0
                                                                                   |-------|  Flags 0x0
                                                                                   |-----------------------------------------------------------------------------|  Value 0x0
                                                                                             |-------------------------------------------------------------------|  Bounds[55:0] 0x0
Base     0x0000000000000000
Exponent 0x0000000000000000
Limit    0x0000000000000000
RepB     0xfffffffffffff800
RepT     0x0000000000003800
`
