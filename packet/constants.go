/*
Copyright 2024, Cossack Labs Limited

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package packet

// DataDelimiter separates logical fields inside one packet
const DataDelimiter = ':'

// PacketDelimiter marks end-of-packet and allows concatenating packets in
// one stream
const PacketDelimiter = "\r\n\r\n"

// PacketDelimiterSize length of PacketDelimiter in bytes
const PacketDelimiterSize = len(PacketDelimiter)

// IVHexSize length of the dense hex rendering of one 16-byte IV
const IVHexSize = 32
